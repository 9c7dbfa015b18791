package orchestration

import (
	"sync"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

// State is the dialogue machine's position in the turn cycle.
type State string

const (
	// StateAwaitingAnswer means the current question has been asked and the
	// session is waiting for the participant.
	StateAwaitingAnswer State = "awaiting_answer"
	// StateEvaluating means a turn's backend round trip is in flight.
	StateEvaluating State = "evaluating"
	// StateCompleted means the evaluation service explicitly signalled the end
	// of the questionnaire. Terminal.
	StateCompleted State = "completed"
	// StateFaulted means turn processing hit an unrecoverable fault. Terminal.
	StateFaulted State = "faulted"
)

// Terminal reports whether no further turns will be processed.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFaulted
}

// dialogueState tracks the current question pointer and machine state. The
// pointer always names a question the server handed the session (or the
// questionnaire's first question) and is absent only in terminal states.
type dialogueState struct {
	mu         sync.RWMutex
	state      State
	current    questionnaire.Question
	hasCurrent bool
}

func newDialogueState(first questionnaire.Question) *dialogueState {
	return &dialogueState{state: StateAwaitingAnswer, current: first, hasCurrent: true}
}

func (d *dialogueState) snapshot() (State, questionnaire.Question, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state, d.current, d.hasCurrent
}

// transition moves between AwaitingAnswer and Evaluating without touching
// the question pointer. It is a no-op in terminal states.
func (d *dialogueState) transition(to State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.state = to
}

// advance replaces the current question after a successful next-question
// fetch and returns to AwaitingAnswer.
func (d *dialogueState) advance(next questionnaire.Question) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.current = next
	d.hasCurrent = true
	d.state = StateAwaitingAnswer
}

// complete freezes the machine: the question pointer is cleared and no
// further transitions are possible.
func (d *dialogueState) complete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.current = questionnaire.Question{}
	d.hasCurrent = false
	d.state = StateCompleted
}

func (d *dialogueState) fault() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Terminal() {
		return
	}
	d.state = StateFaulted
}
