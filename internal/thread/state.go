package thread

// State is the lifecycle position of a Controller.
type State int

const (
	// StateNotStarted: no goroutine has been spawned yet.
	StateNotStarted State = iota
	// StateIdle: the goroutine exists and waits for Start.
	StateIdle
	// StateLooping: the goroutine exists and runs loop iterations.
	StateLooping
	// StateDestroying: Destroy was called and the goroutine has not been joined yet.
	StateDestroying
	// StateDestroyed is terminal.
	StateDestroyed
	// StateFaulted: a hook failed, the goroutine exited and waits to be joined by Destroy.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateIdle:
		return "idle"
	case StateLooping:
		return "looping"
	case StateDestroying:
		return "destroying"
	case StateDestroyed:
		return "destroyed"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}
