package possync

import "time"

// Outcome tags the result of a single order sync call against the POS.
//
// The POS distinguishes transport failure (HTTP/network) from a domain-level
// rejection carried in a 2xx body. Both feed the same retry policy today, but
// the tag is preserved so future policy can treat them differently.
type Outcome string

const (
	// OutcomeSuccess indicates the POS accepted the order
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeRejected indicates the POS explicitly rejected the order
	// (creationStatus "Error" in a 2xx response body)
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeTransportError indicates the call itself failed
	// (network error, timeout, non-2xx HTTP status)
	OutcomeTransportError Outcome = "TRANSPORT_ERROR"
)

// IsFailure returns true for rejected and transport-error outcomes
func (o Outcome) IsFailure() bool {
	return o != OutcomeSuccess
}

// CreateOrderResult is the normalized result of one create-delivery-order call
type CreateOrderResult struct {
	// Outcome tags the result variant
	Outcome Outcome
	// PosOrderID is the order ID assigned by the POS (success only)
	PosOrderID string
	// PosExternalNumber is the POS-side external number (success only)
	PosExternalNumber string
	// ErrorMessage describes the failure (rejection or transport)
	ErrorMessage string
	// ErrorCode is the POS domain error code (rejection only)
	ErrorCode string
}

// Succeeded returns true when the POS accepted the order
func (r *CreateOrderResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// ItemFailure identifies one failed order within a processing run
type ItemFailure struct {
	// OrderID is the local order identifier
	OrderID string `json:"order_id"`
	// OrderNumber is the human-readable order number
	OrderNumber string `json:"order_number"`
	// Error is the failure message
	Error string `json:"error"`
}

// ProcessResult is the aggregate outcome of one queue processing run
type ProcessResult struct {
	// Processed is the number of claimed items
	Processed int `json:"processed"`
	// Succeeded is the number of items that reached COMPLETED
	Succeeded int `json:"succeeded"`
	// Failed is the number of items that failed this run (retried or terminal)
	Failed int `json:"failed"`
	// Failures lists every failure in this run
	Failures []ItemFailure `json:"failures"`
	// StartedAt is when the run started
	StartedAt time.Time `json:"started_at"`
	// Duration is how long the run took
	Duration time.Duration `json:"duration"`
}

// StoreMenuResult is the per-store outcome of a menu sync run
type StoreMenuResult struct {
	// StoreName is the store's display name
	StoreName string `json:"store_name"`
	// Success indicates the store's catalog was reconciled
	Success bool `json:"success"`
	// ErrorMessage describes the failure when Success is false
	ErrorMessage string `json:"error_message,omitempty"`
	// Products is the number of product mappings upserted
	Products int `json:"products"`
	// Categories is the number of category mappings upserted
	Categories int `json:"categories"`
}

// MenuSyncResult is the aggregate outcome of one menu sync run
type MenuSyncResult struct {
	// Total is the number of active stores considered
	Total int `json:"total"`
	// Succeeded is the number of stores synced successfully
	Succeeded int `json:"succeeded"`
	// Failed is the number of stores that failed
	Failed int `json:"failed"`
	// Results holds the per-store outcomes
	Results []StoreMenuResult `json:"results"`
	// StartedAt is when the run started
	StartedAt time.Time `json:"started_at"`
	// Duration is how long the run took
	Duration time.Duration `json:"duration"`
}
