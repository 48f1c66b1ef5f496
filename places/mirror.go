package places

import "fmt"

// Phase is the stage of one walk over the mirror list.
type Phase int

const (
	Pending Phase = iota
	Trying
	Succeeded
	FailedAll
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Trying:
		return "trying"
	case Succeeded:
		return "succeeded"
	case FailedAll:
		return "failed_all"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Event drives the mirror state machine.
type Event int

const (
	Start Event = iota
	AttemptFailed
	AttemptSucceeded
)

// MirrorState is the position of a walk. Index is meaningful while Trying
// and once Succeeded.
type MirrorState struct {
	Phase Phase
	Index int
}

func (s MirrorState) String() string {
	if s.Phase == Trying || s.Phase == Succeeded {
		return fmt.Sprintf("%s(%d)", s.Phase, s.Index)
	}
	return s.Phase.String()
}

// Done reports whether the walk has reached a terminal phase.
func (s MirrorState) Done() bool {
	return s.Phase == Succeeded || s.Phase == FailedAll
}

// Next returns the state after ev given n mirrors. Terminal states absorb
// every event and events that do not apply leave the state unchanged.
func Next(s MirrorState, ev Event, n int) MirrorState {
	switch s.Phase {
	case Pending:
		if ev != Start {
			return s
		}
		if n <= 0 {
			return MirrorState{Phase: FailedAll}
		}
		return MirrorState{Phase: Trying, Index: 0}
	case Trying:
		switch ev {
		case AttemptFailed:
			if s.Index+1 >= n {
				return MirrorState{Phase: FailedAll}
			}
			return MirrorState{Phase: Trying, Index: s.Index + 1}
		case AttemptSucceeded:
			return MirrorState{Phase: Succeeded, Index: s.Index}
		}
	}
	return s
}
