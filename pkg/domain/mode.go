package domain

// Mode selects which algorithm a computer-aware step runs.
type Mode int

const (
	// ModeStandard executes the pipeline locally by pulling through the steps.
	ModeStandard Mode = iota
	// ModeComputer relabels traversers with the next step locator and hands them
	// back to a bulk-synchronous scheduler.
	ModeComputer
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// ParseMode maps the textual form used by the CLI and config files to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "standard", "oltp":
		return ModeStandard, true
	case "computer", "olap":
		return ModeComputer, true
	}
	return ModeStandard, false
}
