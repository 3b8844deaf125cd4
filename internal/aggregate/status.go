package aggregate

// Status is the outcome of a round as the UI sees it.
type Status int

const (
	StatusOK Status = iota
	// StatusEmpty: sources were selected but none returned items.
	StatusEmpty
	StatusNoSources
	// StatusBusy: another round was in flight, nothing was fetched.
	StatusBusy
	StatusExhausted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusNoSources:
		return "no sources"
	case StatusBusy:
		return "busy"
	case StatusExhausted:
		return "exhausted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
