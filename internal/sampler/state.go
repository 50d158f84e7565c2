package sampler

// State is the lifecycle position of a Service.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopped
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Stats are diagnostic counters for a Service.
type Stats struct {
	// Ticks counts samples inserted into the history, priming included.
	Ticks uint64
	// FailedSamples counts reads that errored and were replaced by the fallback.
	FailedSamples uint64
	// FailedAcquisitions counts Start calls that could not acquire the source.
	FailedAcquisitions uint64
	// Degraded is set while running without a source handle.
	Degraded bool
}
