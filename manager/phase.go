package manager

// Phase is the lifecycle phase of a Manager.
type Phase int

// Manager lifecycle phases. Transitions are externally driven:
// New moves Idle to Created, AttachView to ViewAttached, Destroy to
// Destroyed. There are no other transitions.
const (
	// PhaseIdle - the manager is not yet constructed.
	PhaseIdle Phase = iota

	// PhaseCreated - extensions are resolved, the schema is assembled,
	// and create hooks have run. Surfaces are not yet queryable.
	PhaseCreated

	// PhaseViewAttached - a view is bound; commands, helpers, and
	// active-state queries are available.
	PhaseViewAttached

	// PhaseDestroyed - teardown has run; every operation fails.
	PhaseDestroyed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCreated:
		return "created"
	case PhaseViewAttached:
		return "view-attached"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
