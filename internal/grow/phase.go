package grow

// Phase is the orchestrator state. Transitions are linear
// (Idle -> Seeding -> Growing -> Finalizing -> Complete) except for
// Cancelled, reachable from Growing.
type Phase int

const (
	Idle Phase = iota
	Seeding
	Growing
	Finalizing
	Complete
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Seeding:
		return "seeding"
	case Growing:
		return "growing"
	case Finalizing:
		return "finalizing"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether a run in this phase has ended.
func (p Phase) Terminal() bool {
	return p == Complete || p == Cancelled
}
