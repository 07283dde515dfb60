package pagination

// MaxSiblings bounds State.Siblings so a window never exceeds 2*MaxSiblings+5 markers.
const MaxSiblings = 5

// State is an immutable snapshot of a paginated view.
// Reduce is the only way to derive a new State; every returned State is normalized.
type State struct {
	Current  int
	Total    int
	Siblings int
}

// NewState returns a normalized State.
func NewState(current, total, siblings int) State {
	return State{Current: current, Total: total, Siblings: siblings}.normalize()
}

// Window returns the markers for the snapshot.
func (s State) Window() []Marker {
	return Window(s.Current, s.Total, s.Siblings)
}

// HasPrev reports whether a previous page exists.
func (s State) HasPrev() bool { return s.Current > 1 }

// HasNext reports whether a next page exists.
func (s State) HasNext() bool { return s.Current < s.Total }

// ActionKind identifies a navigation event.
type ActionKind int

const (
	ActionGoTo ActionKind = iota + 1
	ActionNext
	ActionPrev
	ActionSetTotal
	ActionSetSiblings
)

// Action is a navigation event applied by Reduce.
type Action struct {
	Kind  ActionKind
	Value int
}

// GoTo requests navigation to page n.
func GoTo(n int) Action { return Action{Kind: ActionGoTo, Value: n} }

// Next requests the following page.
func Next() Action { return Action{Kind: ActionNext} }

// Prev requests the preceding page.
func Prev() Action { return Action{Kind: ActionPrev} }

// SetTotal records a new total page count, e.g. after the result set changed.
func SetTotal(n int) Action { return Action{Kind: ActionSetTotal, Value: n} }

// SetSiblings changes how many sibling pages surround the current one.
func SetSiblings(n int) Action { return Action{Kind: ActionSetSiblings, Value: n} }

// Reduce applies a to s and returns the resulting normalized State.
// Unknown actions return s normalized.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionGoTo:
		s.Current = a.Value
	case ActionNext:
		s.Current++
	case ActionPrev:
		s.Current--
	case ActionSetTotal:
		s.Total = a.Value
	case ActionSetSiblings:
		s.Siblings = a.Value
	}
	return s.normalize()
}

// normalize clamps Current into [1, max(Total, 1)], Siblings into
// [0, MaxSiblings] and floors Total at zero.
func (s State) normalize() State {
	s.Total = max(s.Total, 0)
	s.Siblings = min(max(s.Siblings, 0), MaxSiblings)
	s.Current = min(max(s.Current, 1), max(s.Total, 1))
	return s
}
