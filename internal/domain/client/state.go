package client

// State is the lifecycle state of a provisioned database.
type State string

const (
	StateDraft     State = "draft"
	StateOpen      State = "open"
	StateCancelled State = "cancelled"
	StatePending   State = "pending"
	StateDeleted   State = "deleted"
	StateTemplate  State = "template"
)

var transitions = map[State][]State{
	StateDraft:     {StateOpen, StateTemplate, StatePending, StateCancelled, StateDeleted},
	StateOpen:      {StatePending, StateCancelled, StateDeleted},
	StatePending:   {StateOpen, StateCancelled, StateDeleted},
	StateCancelled: {StateOpen, StateDeleted},
	StateTemplate:  {StateDeleted},
	StateDeleted:   {},
}

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive is the single definition of the persisted "active" projection.
func (s State) IsActive() bool {
	return s != StateDeleted
}

// CanTransitionTo reports whether target is reachable in one step.
// Staying in the same state is allowed for every state except deleted.
func (s State) CanTransitionTo(target State) bool {
	if s == target {
		return s != StateDeleted
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
