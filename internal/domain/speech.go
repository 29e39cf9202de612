package domain

import "context"

// AudioClip is recorded audio waiting to be transcribed.
type AudioClip struct {
	Data        []byte
	Filename    string
	ContentType string
	Language    string
}

// Transcriber converts a finished recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip AudioClip) (string, error)
}

// Utterance is text to be read aloud.
type Utterance struct {
	Text     string
	Language string
	Rate     float64
	Pitch    float64
}

// SpeechAudio is synthesized audio ready to be played back.
type SpeechAudio struct {
	ContentType string
	Data        []byte
}

// Synthesizer converts text to speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, u Utterance) (*SpeechAudio, error)
}
