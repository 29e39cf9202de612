package domain

import (
	"fmt"
	"strings"
)

// Level is a grade band used to filter practice questions.
type Level string

const (
	LevelBachelor Level = "Bachelor"

	classLevelCount = 13
	MinOptions      = 2
	MaxOptions      = 6
)

// ClassLevel returns the level name for school class n, e.g. "Class-6".
func ClassLevel(n int) Level {
	return Level(fmt.Sprintf("Class-%d", n))
}

// AllLevels lists every selectable level in display order.
func AllLevels() []Level {
	levels := make([]Level, 0, classLevelCount+1)
	for i := 1; i <= classLevelCount; i++ {
		levels = append(levels, ClassLevel(i))
	}
	return append(levels, LevelBachelor)
}

func (l Level) Valid() bool {
	if l == LevelBachelor {
		return true
	}
	var n int
	if _, err := fmt.Sscanf(string(l), "Class-%d", &n); err != nil {
		return false
	}
	return n >= 1 && n <= classLevelCount && ClassLevel(n) == l
}

// Question is an immutable multiple-choice practice question.
type Question struct {
	ID            int64    `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Level         Level    `json:"level"`
	Subject       string   `json:"subject"`
}

// Validate checks the shape rules every bank question must satisfy.
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("question id must be positive, got %d", q.ID)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %d: text is empty", q.ID)
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fmt.Errorf("question %d: expected %d-%d options, got %d", q.ID, MinOptions, MaxOptions, len(q.Options))
	}
	if !q.ValidOption(q.CorrectAnswer) {
		return fmt.Errorf("question %d: correct answer index %d out of range", q.ID, q.CorrectAnswer)
	}
	if !q.Level.Valid() {
		return fmt.Errorf("question %d: unknown level %q", q.ID, q.Level)
	}
	return nil
}

func (q *Question) ValidOption(index int) bool {
	return index >= 0 && index < len(q.Options)
}

func (q *Question) IsCorrect(index int) bool {
	return index == q.CorrectAnswer
}

func (q *Question) CorrectOption() string {
	return q.Options[q.CorrectAnswer]
}
