package quiz

import (
	"fmt"
	"math/rand/v2"

	"learn-assist/internal/domain"
)

const (
	MsgCorrect          = "Correct!"
	msgIncorrectFormat  = "Incorrect. The correct answer is: %s"
	MsgNoQuestionsFound = "No questions available for this level yet."
)

// Phase is the derived position of a State in the practice flow.
type Phase string

const (
	PhaseNoQuestion    Phase = "no_question"
	PhaseAnswerPending Phase = "answer_pending"
	PhaseAnswerLocked  Phase = "answer_locked"
)

// State is one session's practice progress. Revealed implies both a question and
// a selected answer.
type State struct {
	Level          domain.Level `json:"level"`
	QuestionID     *int64       `json:"questionId,omitempty"`
	SelectedAnswer *int         `json:"selectedAnswer,omitempty"`
	Revealed       bool         `json:"revealed"`
}

func NewState(level domain.Level) State {
	return State{Level: level}
}

func (s State) Phase() Phase {
	switch {
	case s.QuestionID == nil:
		return PhaseNoQuestion
	case s.Revealed:
		return PhaseAnswerLocked
	default:
		return PhaseAnswerPending
	}
}

// Consistent reports whether the reveal invariant holds.
func (s State) Consistent() bool {
	return !s.Revealed || (s.QuestionID != nil && s.SelectedAnswer != nil)
}

// Result is the feedback shown after an answer is revealed.
type Result struct {
	Correct       bool   `json:"correct"`
	Message       string `json:"message"`
	CorrectAnswer int    `json:"correctAnswer"`
	CorrectOption string `json:"correctOption"`
}

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

type defaultPicker struct{}

func (defaultPicker) IntN(n int) int { return rand.IntN(n) }

// Machine applies practice transitions to a State using the bank.
type Machine struct {
	bank   *Bank
	picker Picker
}

// NewMachine returns a machine drawing questions uniformly at random.
// A nil picker uses the process-wide generator.
func NewMachine(bank *Bank, picker Picker) *Machine {
	if picker == nil {
		picker = defaultPicker{}
	}
	return &Machine{bank: bank, picker: picker}
}

func (m *Machine) Bank() *Bank {
	return m.bank
}

// SelectLevel switches level and drops the current question, answer and reveal.
func (m *Machine) SelectLevel(s *State, level domain.Level) error {
	if !level.Valid() {
		return domain.NewInvalidLevelError(string(level))
	}
	*s = NewState(level)
	return nil
}

// StartPractice draws a question of the active level. It returns false and leaves
// the state untouched when the level has no questions.
func (m *Machine) StartPractice(s *State) bool {
	candidates := m.bank.ByLevel(s.Level)
	if len(candidates) == 0 {
		return false
	}
	q := candidates[m.picker.IntN(len(candidates))]
	id := q.ID
	s.QuestionID = &id
	s.SelectedAnswer = nil
	s.Revealed = false
	return true
}

// SelectAnswer records a choice. It is ignored when nothing is asked or the answer
// is already revealed; an index outside the options is a validation error.
func (m *Machine) SelectAnswer(s *State, index int) error {
	if s.Revealed {
		return nil
	}
	q, ok := m.Current(*s)
	if !ok {
		return nil
	}
	if !q.ValidOption(index) {
		return domain.ValidationErrors{
			domain.NewOutOfRangeError("answer", index, 0, len(q.Options)-1),
		}
	}
	s.SelectedAnswer = &index
	return nil
}

// SubmitAnswer locks the selected answer. Without a selection it does nothing.
func (m *Machine) SubmitAnswer(s *State) bool {
	if s.SelectedAnswer == nil || s.QuestionID == nil {
		return false
	}
	s.Revealed = true
	return true
}

// Current returns the question being asked, if any.
func (m *Machine) Current(s State) (*domain.Question, bool) {
	if s.QuestionID == nil {
		return nil, false
	}
	q, ok := m.bank.Get(*s.QuestionID)
	if !ok {
		return nil, false
	}
	return &q, true
}

// Result is only available once the answer is revealed.
func (m *Machine) Result(s State) (*Result, bool) {
	if !s.Revealed || s.SelectedAnswer == nil {
		return nil, false
	}
	q, ok := m.Current(s)
	if !ok {
		return nil, false
	}
	res := &Result{
		Correct:       q.IsCorrect(*s.SelectedAnswer),
		CorrectAnswer: q.CorrectAnswer,
		CorrectOption: q.CorrectOption(),
	}
	if res.Correct {
		res.Message = MsgCorrect
	} else {
		res.Message = fmt.Sprintf(msgIncorrectFormat, q.CorrectOption())
	}
	return res, true
}

// Normalize repairs a state restored from storage: unknown levels fall back to
// fallback, and references to questions no longer in the bank are dropped.
func (m *Machine) Normalize(s *State, fallback domain.Level) {
	if !s.Level.Valid() {
		*s = NewState(fallback)
		return
	}
	if s.QuestionID == nil {
		s.SelectedAnswer = nil
	} else {
		q, ok := m.bank.Get(*s.QuestionID)
		if !ok || q.Level != s.Level {
			*s = NewState(s.Level)
			return
		}
		if s.SelectedAnswer != nil && !q.ValidOption(*s.SelectedAnswer) {
			s.SelectedAnswer = nil
		}
	}
	if !s.Consistent() {
		s.Revealed = false
	}
}
