package gate

// Status is the tri-state answer returned to callers.
type Status string

const (
	StatusUnique    Status = "unique"
	StatusDuplicate Status = "duplicate"
	StatusError     Status = "error"
)

// Reason refines StatusError.
type Reason string

const (
	ReasonNone Reason = ""
	// ReasonEmpty: the input normalized to nothing; the submission is ignored.
	ReasonEmpty Reason = "empty"
	// ReasonStoreUnavailable: the append failed; retrying is safe.
	ReasonStoreUnavailable Reason = "store_unavailable"
)

type Result struct {
	Status    Status   `json:"status"`
	Canonical string   `json:"canonical,omitempty"`
	Hosts     []string `json:"hosts"`
	Reason    Reason   `json:"reason,omitempty"`
}

// Retryable reports whether resubmitting the same input may succeed.
func (r Result) Retryable() bool {
	return r.Status == StatusError && r.Reason == ReasonStoreUnavailable
}
