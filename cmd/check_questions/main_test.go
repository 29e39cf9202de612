package main

import (
	"os"
	"path/filepath"
	"testing"

	"learn-assist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCheckFile(t *testing.T) {
	path := writeBank(t, `[
		{"id": 1, "text": "2 + 2 = ?", "options": ["3", "4"], "correctAnswer": 1, "level": "Class-1", "subject": "Mathematics"},
		{"id": 2, "text": "H2O is?", "options": ["Water", "Salt", "Sugar"], "correctAnswer": 0, "level": "Bachelor", "subject": "Chemistry"}
	]`)

	summaries, total, err := checkFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, summaries, len(domain.AllLevels()))
	assert.Equal(t, 1, summaries[0].QuestionCount)
	assert.Equal(t, 0, summaries[1].QuestionCount)
	assert.Equal(t, domain.LevelBachelor, summaries[len(summaries)-1].Level)
}

func TestCheckFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `[{`},
		{name: "duplicate id", content: `[
			{"id": 1, "text": "a", "options": ["x", "y"], "correctAnswer": 0, "level": "Class-1"},
			{"id": 1, "text": "b", "options": ["x", "y"], "correctAnswer": 0, "level": "Class-2"}
		]`},
		{name: "answer out of range", content: `[{"id": 1, "text": "a", "options": ["x", "y"], "correctAnswer": 2, "level": "Class-1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := checkFile(writeBank(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, _, err := checkFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheckFile_EmbeddedSeed(t *testing.T) {
	_, total, err := checkFile("../../internal/quiz/seed_questions.json")
	require.NoError(t, err)
	assert.Positive(t, total)
}
