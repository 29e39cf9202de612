// Command check_questions validates a question bank file before it replaces
// internal/quiz/seed_questions.json, and reports how many questions each level has.
package main

import (
	"flag"
	"fmt"
	"os"

	"learn-assist/internal/config"
	"learn-assist/internal/logger"
	"learn-assist/internal/quiz"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "internal/quiz/seed_questions.json", "question bank JSON file to check")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	summaries, total, err := checkFile(*file)
	if err != nil {
		log.Fatal("Question bank is invalid", zap.String("path", *file), zap.Error(err))
	}
	for _, s := range summaries {
		if s.QuestionCount == 0 {
			log.Warn("Level has no questions", zap.String("level", string(s.Level)))
			continue
		}
		log.Info("Level checked", zap.String("level", string(s.Level)), zap.Int("questions", s.QuestionCount))
	}
	log.Info("Question bank is valid", zap.String("path", *file), zap.Int("total", total))
}

func checkFile(path string) ([]quiz.LevelSummary, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	bank, err := quiz.ParseBank(raw)
	if err != nil {
		return nil, 0, err
	}
	return bank.Levels(), bank.Len(), nil
}
