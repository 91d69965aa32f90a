package scenario

// State is the scenario's position in the prank sequence.
type State int

const (
	Idle State = iota
	Scanning
	Countdown
	Prank
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Scanning:
		return "SCANNING"
	case Countdown:
		return "COUNTDOWN"
	case Prank:
		return "PRANK"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// active reports whether timers may be pending in this state.
func (s State) active() bool {
	return s == Scanning || s == Countdown
}
