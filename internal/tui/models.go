package tui

type View int

const (
	ViewGrid View = iota
	ViewDetail
	ViewFind
)

func (v View) String() string {
	switch v {
	case ViewGrid:
		return "grid"
	case ViewDetail:
		return "detail"
	case ViewFind:
		return "find"
	default:
		return "unknown"
	}
}
