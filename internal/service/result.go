package service

import "taskboard/internal/model"

// ResultKind tags the outcome of a mutation.
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultInvalid
	ResultNotFound
	ResultConflict
	ResultStoreError
)

// Flash is a one-time notification queued during a mutation and shown on
// the next page render only.
type Flash struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// MutationResult is the uniform outcome of create, edit, delete and toggle.
// Flashes are returned to the caller rather than written to shared state;
// the web layer persists them across the redirect boundary.
type MutationResult struct {
	Kind      ResultKind
	Message   string
	Errors    []string
	TaskID    uint
	NewStatus model.Status
	Flashes   []Flash
}

// OK reports whether the mutation succeeded.
func (r MutationResult) OK() bool {
	return r.Kind == ResultOK
}

func errorFlashes(messages []string) []Flash {
	flashes := make([]Flash, 0, len(messages))
	for _, msg := range messages {
		flashes = append(flashes, Flash{Text: msg, Kind: FlashError})
	}
	return flashes
}
