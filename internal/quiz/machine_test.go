package quiz

import (
	"testing"

	"learn-assist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedPicker always returns the same index and counts how often it was asked.
type fixedPicker struct {
	index int
	calls int
}

func (p *fixedPicker) IntN(n int) int {
	p.calls++
	if p.index >= n {
		return n - 1
	}
	return p.index
}

func newTestMachine(t *testing.T, picker Picker) *Machine {
	t.Helper()
	bank, err := LoadSeedBank()
	require.NoError(t, err)
	return NewMachine(bank, picker)
}

func TestMachine_ClassSixScenario(t *testing.T) {
	m := newTestMachine(t, nil)
	s := NewState("Class-10")

	require.NoError(t, m.SelectLevel(&s, "Class-6"))
	assert.Equal(t, PhaseNoQuestion, s.Phase())

	require.True(t, m.StartPractice(&s))
	require.NotNil(t, s.QuestionID)
	assert.EqualValues(t, 4, *s.QuestionID)
	assert.Equal(t, PhaseAnswerPending, s.Phase())

	require.NoError(t, m.SelectAnswer(&s, 0))
	require.True(t, m.SubmitAnswer(&s))
	assert.Equal(t, PhaseAnswerLocked, s.Phase())

	res, ok := m.Result(s)
	require.True(t, ok)
	assert.True(t, res.Correct)
	assert.Equal(t, "Correct!", res.Message)
}

func TestMachine_IncorrectMessage(t *testing.T) {
	m := newTestMachine(t, nil)
	s := NewState("Class-6")

	require.True(t, m.StartPractice(&s))
	require.NoError(t, m.SelectAnswer(&s, 2))
	require.True(t, m.SubmitAnswer(&s))

	res, ok := m.Result(s)
	require.True(t, ok)
	assert.False(t, res.Correct)
	assert.Equal(t, "Incorrect. The correct answer is: 3.14", res.Message)
	assert.Equal(t, 0, res.CorrectAnswer)
}

func TestMachine_CorrectnessMatchesIndex(t *testing.T) {
	m := newTestMachine(t, nil)
	for _, level := range []domain.Level{"Class-10", "Class-12", domain.LevelBachelor, "Class-1"} {
		for _, q := range m.Bank().ByLevel(level) {
			for i := range q.Options {
				id := q.ID
				s := State{Level: level, QuestionID: &id}
				require.NoError(t, m.SelectAnswer(&s, i))
				require.True(t, m.SubmitAnswer(&s))
				assert.True(t, s.Revealed)
				assert.True(t, s.Consistent())

				res, ok := m.Result(s)
				require.True(t, ok)
				assert.Equal(t, i == q.CorrectAnswer, res.Correct, "question %d option %d", q.ID, i)
			}
		}
	}
}

func TestMachine_EmptyLevel(t *testing.T) {
	picker := &fixedPicker{}
	m := newTestMachine(t, picker)
	s := NewState("Class-13")

	assert.False(t, m.StartPractice(&s))
	assert.Nil(t, s.QuestionID)
	assert.Equal(t, PhaseNoQuestion, s.Phase())
	assert.Zero(t, picker.calls)
}

func TestMachine_SelectAnswer(t *testing.T) {
	m := newTestMachine(t, nil)

	t.Run("no question is a no-op", func(t *testing.T) {
		s := NewState("Class-6")
		assert.NoError(t, m.SelectAnswer(&s, 1))
		assert.Nil(t, s.SelectedAnswer)
	})

	t.Run("out of range index is rejected", func(t *testing.T) {
		s := NewState("Class-6")
		require.True(t, m.StartPractice(&s))

		err := m.SelectAnswer(&s, 4)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "answer", verrs[0].Field)
		assert.Nil(t, s.SelectedAnswer)

		assert.Error(t, m.SelectAnswer(&s, -1))
	})

	t.Run("ignored after reveal", func(t *testing.T) {
		s := NewState("Class-6")
		require.True(t, m.StartPractice(&s))
		require.NoError(t, m.SelectAnswer(&s, 1))
		require.True(t, m.SubmitAnswer(&s))

		assert.NoError(t, m.SelectAnswer(&s, 0))
		require.NotNil(t, s.SelectedAnswer)
		assert.Equal(t, 1, *s.SelectedAnswer)
	})

	t.Run("can change before submit", func(t *testing.T) {
		s := NewState("Class-6")
		require.True(t, m.StartPractice(&s))
		require.NoError(t, m.SelectAnswer(&s, 1))
		require.NoError(t, m.SelectAnswer(&s, 3))
		assert.Equal(t, 3, *s.SelectedAnswer)
	})
}

func TestMachine_SubmitWithoutSelection(t *testing.T) {
	m := newTestMachine(t, nil)
	s := NewState("Class-6")
	require.True(t, m.StartPractice(&s))

	assert.False(t, m.SubmitAnswer(&s))
	assert.False(t, s.Revealed)

	_, ok := m.Result(s)
	assert.False(t, ok)
}

func TestMachine_NextQuestionClearsAnswer(t *testing.T) {
	picker := &fixedPicker{index: 1}
	m := newTestMachine(t, picker)
	s := NewState("Class-10")

	require.True(t, m.StartPractice(&s))
	assert.EqualValues(t, 5, *s.QuestionID)
	require.NoError(t, m.SelectAnswer(&s, 2))
	require.True(t, m.SubmitAnswer(&s))

	picker.index = 0
	require.True(t, m.StartPractice(&s))
	assert.EqualValues(t, 1, *s.QuestionID)
	assert.Nil(t, s.SelectedAnswer)
	assert.False(t, s.Revealed)
	assert.Equal(t, PhaseAnswerPending, s.Phase())
}

func TestMachine_SelectLevel(t *testing.T) {
	m := newTestMachine(t, nil)
	s := NewState("Class-6")
	require.True(t, m.StartPractice(&s))
	require.NoError(t, m.SelectAnswer(&s, 0))
	require.True(t, m.SubmitAnswer(&s))

	require.NoError(t, m.SelectLevel(&s, domain.LevelBachelor))
	assert.Equal(t, domain.LevelBachelor, s.Level)
	assert.Nil(t, s.QuestionID)
	assert.Nil(t, s.SelectedAnswer)
	assert.False(t, s.Revealed)

	err := m.SelectLevel(&s, "PhD")
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInvalidLevel, derr.Code)
	assert.Equal(t, domain.LevelBachelor, s.Level)
}

func TestMachine_Normalize(t *testing.T) {
	m := newTestMachine(t, nil)

	s := State{Level: "Nursery"}
	m.Normalize(&s, "Class-10")
	assert.Equal(t, NewState("Class-10"), s)

	missing := int64(999)
	s = State{Level: "Class-6", QuestionID: &missing, Revealed: true}
	m.Normalize(&s, "Class-10")
	assert.Equal(t, NewState("Class-6"), s)

	four, bad := int64(4), 9
	s = State{Level: "Class-6", QuestionID: &four, SelectedAnswer: &bad, Revealed: true}
	m.Normalize(&s, "Class-10")
	assert.Nil(t, s.SelectedAnswer)
	assert.False(t, s.Revealed)
	assert.True(t, s.Consistent())
}
