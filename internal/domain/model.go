package domain

import "time"

// MaxHosts caps the ledger: once full, a new unique host evicts the oldest one.
const MaxHosts = 50

// CanonicalHost is a normalized host/IP, the uniqueness key of the ledger.
// Values are produced by Normalize; exact-match and case-sensitive.
type CanonicalHost string

func (h CanonicalHost) String() string { return string(h) }

// Snapshot is an immutable view of the ledger, most recent host first.
type Snapshot struct {
	Hosts     []CanonicalHost
	UpdatedAt time.Time // zero until the first load
}

// Strings returns the hosts as plain strings for rendering.
func (s Snapshot) Strings() []string {
	out := make([]string, len(s.Hosts))
	for i, h := range s.Hosts {
		out[i] = string(h)
	}
	return out
}

// Outcome of an insert-if-absent call.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	Inserted
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}
