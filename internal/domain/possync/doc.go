// Package possync contains the domain model of the POS synchronization
// subsystem: store configurations bound to an external POS cloud, the sync
// queue state machine for outbound orders, durable sync records, and the
// catalog mappings maintained by menu synchronization.
//
// The package defines ports only; the IIKO adapter, the gorm repositories
// and the scheduler live in the infrastructure layer, the queue processor
// and menu sync orchestration in the application layer.
package possync
