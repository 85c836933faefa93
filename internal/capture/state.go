package capture

// requestState tracks where a capture request is in its lifecycle.
// Completed and Failed are terminal; the orchestrator itself stays
// reusable across requests.
type requestState int

const (
	stateIdle requestState = iota
	stateValidating
	stateExtracting
	statePersisting
	stateCompleted
	stateFailed
)

func (s requestState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateValidating:
		return "validating"
	case stateExtracting:
		return "extracting"
	case statePersisting:
		return "persisting"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// validTransitions is the allowed request state graph. Persisting is
// skipped when no save was requested; any non-terminal state may fail.
var validTransitions = map[requestState]map[requestState]bool{
	stateIdle: {
		stateValidating: true,
		stateFailed:     true,
	},
	stateValidating: {
		stateExtracting: true,
		stateFailed:     true,
	},
	stateExtracting: {
		statePersisting: true,
		stateCompleted:  true,
		stateFailed:     true,
	},
	statePersisting: {
		stateCompleted: true,
		stateFailed:    true,
	},
}

func canTransition(from, to requestState) bool {
	return validTransitions[from][to]
}
