package game

type SessionState int

const (
	StateWaiting SessionState = iota
	StatePlaying
	StateEnded
)

func (s SessionState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

type WinResult int

const (
	WinNone WinResult = iota
	WinIT
	WinRunners
)

func (w WinResult) String() string {
	switch w {
	case WinIT:
		return "it"
	case WinRunners:
		return "runners"
	default:
		return "none"
	}
}
