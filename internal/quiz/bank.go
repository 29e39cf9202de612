package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"learn-assist/internal/domain"
)

//go:embed seed_questions.json
var seedQuestions []byte

// LevelSummary is one entry of the level picker.
type LevelSummary struct {
	Level         domain.Level `json:"level"`
	QuestionCount int          `json:"questionCount"`
}

// Bank is the read-only question bank. It is safe for concurrent use.
type Bank struct {
	questions []domain.Question
	byID      map[int64]int
	byLevel   map[domain.Level][]int
}

// NewBank validates questions and indexes them by id and level.
func NewBank(questions []domain.Question) (*Bank, error) {
	b := &Bank{
		questions: make([]domain.Question, 0, len(questions)),
		byID:      make(map[int64]int, len(questions)),
		byLevel:   make(map[domain.Level][]int),
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed question: %w", err)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		q.Options = append([]string(nil), q.Options...)
		idx := len(b.questions)
		b.questions = append(b.questions, q)
		b.byID[q.ID] = idx
		b.byLevel[q.Level] = append(b.byLevel[q.Level], idx)
	}
	return b, nil
}

// LoadSeedBank builds the bank from the embedded seed file.
func LoadSeedBank() (*Bank, error) {
	return ParseBank(seedQuestions)
}

// ParseBank decodes a JSON array of questions and builds a bank from it.
func ParseBank(data []byte) (*Bank, error) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode seed questions: %w", err)
	}
	return NewBank(questions)
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Get returns a copy of the question with the given id.
func (b *Bank) Get(id int64) (domain.Question, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return b.copyAt(idx), true
}

// ByLevel returns copies of the level's questions ordered by id.
func (b *Bank) ByLevel(level domain.Level) []domain.Question {
	idxs := b.byLevel[level]
	out := make([]domain.Question, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, b.copyAt(idx))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Levels lists every selectable level, including those with no questions.
func (b *Bank) Levels() []LevelSummary {
	all := domain.AllLevels()
	out := make([]LevelSummary, 0, len(all))
	for _, l := range all {
		out = append(out, LevelSummary{Level: l, QuestionCount: len(b.byLevel[l])})
	}
	return out
}

func (b *Bank) copyAt(idx int) domain.Question {
	q := b.questions[idx]
	q.Options = append([]string(nil), q.Options...)
	return q
}
