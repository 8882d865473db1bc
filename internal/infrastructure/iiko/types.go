package iiko

// Wire types for the IIKO Cloud transport API. JSON over HTTPS; every
// endpoint is a POST, authenticated with a bearer token except the token
// exchange itself.

// ---------------------------------------------------------------------------
// Token exchange
// ---------------------------------------------------------------------------

// AccessTokenRequest is the body of POST /api/1/access_token
type AccessTokenRequest struct {
	APILogin string `json:"apiLogin"`
}

// AccessTokenResponse is the response of the token exchange.
// TokenTTLSeconds is absent on older API versions; callers fall back to the
// documented one-hour lifetime.
type AccessTokenResponse struct {
	CorrelationID   string `json:"correlationId"`
	Token           string `json:"token"`
	TokenTTLSeconds int64  `json:"tokenTtlSeconds,omitempty"`
}

// ---------------------------------------------------------------------------
// Organizations / terminal groups
// ---------------------------------------------------------------------------

// OrganizationsRequest is the body of POST /api/1/organizations
type OrganizationsRequest struct {
	ReturnAdditionalInfo bool `json:"returnAdditionalInfo"`
}

// Organization is one organization visible to the API login
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrganizationsResponse is the response of the organizations listing
type OrganizationsResponse struct {
	CorrelationID string         `json:"correlationId"`
	Organizations []Organization `json:"organizations"`
}

// TerminalGroupsRequest is the body of POST /api/1/terminal_groups
type TerminalGroupsRequest struct {
	OrganizationIDs []string `json:"organizationIds"`
}

// TerminalGroup is one terminal group of an organization
type TerminalGroup struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
}

// terminalGroupsByOrg groups terminal groups under their organization
type terminalGroupsByOrg struct {
	OrganizationID string          `json:"organizationId"`
	Items          []TerminalGroup `json:"items"`
}

// TerminalGroupsResponse is the response of the terminal group listing
type TerminalGroupsResponse struct {
	CorrelationID  string                `json:"correlationId"`
	TerminalGroups []terminalGroupsByOrg `json:"terminalGroups"`
}

// ---------------------------------------------------------------------------
// Delivery order creation
// ---------------------------------------------------------------------------

// creationStatusError is the domain-level rejection marker inside a 2xx
// delivery-create response. Distinct from the HTTP status.
const creationStatusError = "Error"

// CreateDeliveryRequest is the body of POST /api/1/deliveries/create
type CreateDeliveryRequest struct {
	OrganizationID  string        `json:"organizationId"`
	TerminalGroupID string        `json:"terminalGroupId,omitempty"`
	Order           DeliveryOrder `json:"order"`
}

// DeliveryOrder is the order payload sent to the POS
type DeliveryOrder struct {
	ExternalNumber string              `json:"externalNumber,omitempty"`
	Phone          string              `json:"phone"`
	CompleteBefore string              `json:"completeBefore,omitempty"`
	Comment        string              `json:"comment,omitempty"`
	Customer       *DeliveryCustomer   `json:"customer,omitempty"`
	DeliveryPoint  *DeliveryPoint      `json:"deliveryPoint,omitempty"`
	Items          []DeliveryOrderItem `json:"items"`
}

// DeliveryCustomer carries the customer's display name
type DeliveryCustomer struct {
	Name string `json:"name"`
}

// DeliveryPoint is the delivery destination block, attached only for
// delivery orders
type DeliveryPoint struct {
	Address DeliveryAddress `json:"address"`
	Comment string          `json:"comment,omitempty"`
}

// DeliveryAddress is the structured address inside a delivery point
type DeliveryAddress struct {
	Street Street `json:"street"`
	House  string `json:"house,omitempty"`
	Flat   string `json:"flat,omitempty"`
}

// Street references a street by name
type Street struct {
	Name string `json:"name"`
}

// DeliveryOrderItem is one order line in the POS payload
type DeliveryOrderItem struct {
	ProductID string  `json:"productId"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

// CreateDeliveryResponse is the response of the delivery-create endpoint
type CreateDeliveryResponse struct {
	CorrelationID string     `json:"correlationId"`
	OrderInfo     *OrderInfo `json:"orderInfo"`
}

// OrderInfo describes the created (or rejected) POS order
type OrderInfo struct {
	ID             string          `json:"id"`
	PosID          string          `json:"posId"`
	ExternalNumber string          `json:"externalNumber"`
	OrganizationID string          `json:"organizationId"`
	Timestamp      int64           `json:"timestamp"`
	CreationStatus string          `json:"creationStatus"`
	ErrorInfo      *OrderErrorInfo `json:"errorInfo,omitempty"`
}

// OrderErrorInfo is the POS domain error attached to a rejected order
type OrderErrorInfo struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// ---------------------------------------------------------------------------
// Catalog (nomenclature) and stop lists
// ---------------------------------------------------------------------------

// NomenclatureRequest is the body of POST /api/1/nomenclature
type NomenclatureRequest struct {
	OrganizationID string `json:"organizationId"`
	StartRevision  int64  `json:"startRevision,omitempty"`
}

// NomenclatureGroup is one catalog group
type NomenclatureGroup struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	IsIncludedInMenu bool   `json:"isIncludedInMenu"`
}

// SizePrice is one price entry of a catalog product
type SizePrice struct {
	Price struct {
		CurrentPrice float64 `json:"currentPrice"`
	} `json:"price"`
}

// NomenclatureProduct is one catalog product
type NomenclatureProduct struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ParentGroup string      `json:"parentGroup"`
	SizePrices  []SizePrice `json:"sizePrices"`
}

// NomenclatureResponse is the catalog snapshot for one organization
type NomenclatureResponse struct {
	CorrelationID string                `json:"correlationId"`
	Revision      int64                 `json:"revision"`
	Groups        []NomenclatureGroup   `json:"groups"`
	Products      []NomenclatureProduct `json:"products"`
}

// StopListsRequest is the body of POST /api/1/stop_lists
type StopListsRequest struct {
	OrganizationIDs []string `json:"organizationIds"`
}

// StopListItem is one stopped product with its remaining balance
type StopListItem struct {
	ProductID string  `json:"productId"`
	Balance   float64 `json:"balance"`
}

// terminalStopList is the stop list of one terminal group
type terminalStopList struct {
	TerminalGroupID string         `json:"terminalGroupId"`
	Items           []StopListItem `json:"items"`
}

// organizationStopList is the stop list of one organization
type organizationStopList struct {
	OrganizationID string             `json:"organizationId"`
	Items          []terminalStopList `json:"items"`
}

// StopListsResponse is the response of the stop-list endpoint
type StopListsResponse struct {
	CorrelationID          string                 `json:"correlationId"`
	TerminalGroupStopLists []organizationStopList `json:"terminalGroupStopLists"`
}
