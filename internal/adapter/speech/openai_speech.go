package speech

import (
	"context"
	"fmt"
	"io"
	"time"

	"learn-assist/internal/adapter/openaiapi"
	"learn-assist/internal/domain"
	"learn-assist/internal/logger"

	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// OpenAISpeech implements domain.Transcriber and domain.Synthesizer against the
// OpenAI-compatible audio endpoints.
type OpenAISpeech struct {
	client             openai.Client
	transcriptionModel string
	speechModel        string
	voice              string
}

func NewOpenAISpeech(apiKey, baseURL, transcriptionModel, speechModel, voice string, timeout time.Duration) (*OpenAISpeech, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("speech API key cannot be empty")
	}
	if transcriptionModel == "" {
		return nil, fmt.Errorf("transcription model cannot be empty")
	}
	return &OpenAISpeech{
		client:             openaiapi.NewClient(apiKey, baseURL, timeout),
		transcriptionModel: transcriptionModel,
		speechModel:        speechModel,
		voice:              voice,
	}, nil
}

// CanSynthesize reports whether a speech model and voice are configured.
func (s *OpenAISpeech) CanSynthesize() bool {
	return s.speechModel != "" && s.voice != ""
}

func (s *OpenAISpeech) Transcribe(ctx context.Context, clip domain.AudioClip) (string, error) {
	filename := clip.Filename
	if filename == "" {
		filename = "recording.webm"
	}

	res, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openaiapi.NewNamedFile(clip.Data, filename, clip.ContentType),
		Model: openai.AudioModel(s.transcriptionModel),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return res.Text, nil
}

// Synthesize reads u.Text aloud. The endpoint has no pitch control, so Pitch is only logged.
func (s *OpenAISpeech) Synthesize(ctx context.Context, u domain.Utterance) (*domain.SpeechAudio, error) {
	if u.Pitch != 0 && u.Pitch != 1 {
		logger.Get().Debug("Speech pitch is not adjustable for this backend", zap.Float64("pitch", u.Pitch))
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input: u.Text,
		Model: openai.SpeechModel(s.speechModel),
		Voice: openai.AudioSpeechNewParamsVoice(s.voice),
		Speed: openai.Float(clampSpeed(u.Rate)),
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &domain.SpeechAudio{ContentType: contentType, Data: data}, nil
}

func clampSpeed(rate float64) float64 {
	switch {
	case rate <= 0:
		return 1
	case rate < minSpeed:
		return minSpeed
	case rate > maxSpeed:
		return maxSpeed
	}
	return rate
}
