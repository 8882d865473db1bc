package possync

import "errors"

var (
	// Configuration errors. These indicate a data-integrity defect and are
	// never retried.

	// ErrConfigNotFound is returned when a store configuration does not exist
	ErrConfigNotFound = errors.New("possync: store config not found")
	// ErrConfigInactive is returned when a store configuration is disabled for sync
	ErrConfigInactive = errors.New("possync: store config not active")

	// Authentication errors. Soft failures: the operation fails as a
	// transient sync failure subject to the retry policy.

	// ErrAuthFailed is returned when the token exchange with the POS fails
	ErrAuthFailed = errors.New("possync: cannot authenticate with POS")

	// Transport errors.

	// ErrPosUnavailable is returned when the POS cloud cannot be reached
	ErrPosUnavailable = errors.New("possync: POS temporarily unavailable")
	// ErrPosRequestFailed is returned for non-2xx POS responses
	ErrPosRequestFailed = errors.New("possync: POS request failed")
	// ErrPosInvalidResponse is returned when a POS response cannot be decoded
	ErrPosInvalidResponse = errors.New("possync: invalid POS response")

	// Queue errors.

	// ErrQueueItemNotFound is returned when a queue item does not exist
	ErrQueueItemNotFound = errors.New("possync: queue item not found")
	// ErrInvalidTransition is returned for a disallowed queue status transition
	ErrInvalidTransition = errors.New("possync: invalid queue status transition")

	// Mapping errors.

	// ErrMappingNotFound is returned when a product mapping does not exist
	ErrMappingNotFound = errors.New("possync: product mapping not found")
)
