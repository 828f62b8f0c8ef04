// Package ingest defines the shared outcome type for metric ingestion.
// Per-provider mappers live in subpackages.
package ingest

// ItemError reports one rejected entry in a sync batch.
type ItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Result holds the outcome of one sync operation. Partial success is the
// normal case: valid entries are stored, invalid ones are reported here.
type Result struct {
	SyncID         string      `json:"sync_id"`
	Status         string      `json:"status"` // "success", "partial", "error"
	ProcessedCount int         `json:"processed_count"`
	FailedCount    int         `json:"failed_count"`
	TotalCount     int         `json:"total_count"`
	SkippedCount   int64       `json:"skipped_count,omitempty"` // stored-duplicate no-ops
	Errors         []ItemError `json:"errors,omitempty"`
}

// AddError records one failed entry.
func (r *Result) AddError(index int, message string) {
	r.FailedCount++
	r.Errors = append(r.Errors, ItemError{Index: index, Message: message})
}

// Finalize sets Status from the counters.
func (r *Result) Finalize() {
	switch {
	case r.FailedCount == 0:
		r.Status = "success"
	case r.ProcessedCount == 0 && r.TotalCount > 0:
		r.Status = "error"
	default:
		r.Status = "partial"
	}
}
