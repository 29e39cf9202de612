package voice

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"learn-assist/internal/domain"
	"learn-assist/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultLanguage = "en-US"
	DefaultRate     = 1.0
	DefaultPitch    = 1.0

	msgRecognitionFailed = "Speech recognition failed. Please try again."
	msgSynthesisFailed   = "Could not read the text aloud. Please try again."
	msgRecordingTimedOut = "Recording reached the maximum length and was stopped. Please record again."
)

type Config struct {
	MaxAudioBytes int
	MaxDuration   time.Duration
}

// RecordingInfo describes a recording that has just started.
type RecordingInfo struct {
	Language    string        `json:"language"`
	DeviceID    int64         `json:"deviceId"`
	StartedAt   time.Time     `json:"startedAt"`
	MaxDuration time.Duration `json:"maxDuration"`
}

// Transcript is the single result of a non-continuous recording.
// Final is false when nothing was recorded.
type Transcript struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Capabilities is what the dashboard needs to enable or hide the voice controls.
type Capabilities struct {
	Recognition  bool  `json:"recognition"`
	Synthesis    bool  `json:"synthesis"`
	Devices      int64 `json:"devices"`
	DevicesInUse int64 `json:"devicesInUse"`
}

type recording struct {
	device      *Device
	buf         bytes.Buffer
	language    string
	contentType string
	startedAt   time.Time
	timer       *time.Timer
}

// Service runs at most one recording per session. Every recording holds a device
// from the pool until it is stopped, fails, times out or is torn down.
type Service struct {
	recognition Capability
	synthesizer domain.Synthesizer
	cfg         Config

	mu         sync.Mutex
	recordings map[string]*recording
	// timedOut marks sessions whose recording hit MaxDuration. The mark lives
	// until the session stops or starts over.
	timedOut map[string]struct{}
	closed   bool
}

// NewService wires recognition and synthesis. A nil synthesizer disables Speak.
func NewService(recognition Capability, synthesizer domain.Synthesizer, cfg Config) *Service {
	if recognition == nil {
		recognition = Unavailable{Reason: "not probed"}
	}
	return &Service{
		recognition: recognition,
		synthesizer: synthesizer,
		cfg:         cfg,
		recordings:  make(map[string]*recording),
		timedOut:    make(map[string]struct{}),
	}
}

func (s *Service) Capabilities() Capabilities {
	caps := Capabilities{Synthesis: s.synthesizer != nil}
	if a, ok := s.recognition.(Available); ok {
		caps.Recognition = true
		caps.Devices = a.Devices.Size()
		caps.DevicesInUse = a.Devices.InUse()
	}
	return caps
}

// Start begins a recording for sessionID.
func (s *Service) Start(sessionID, language, contentType string) (*RecordingInfo, error) {
	avail, ok := s.recognition.(Available)
	if !ok {
		return nil, domain.NewNotSupportedError(domain.MsgRecognitionMissing)
	}
	if language == "" {
		language = DefaultLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.NewNotSupportedError(domain.MsgRecognitionMissing)
	}
	if _, busy := s.recordings[sessionID]; busy {
		return nil, domain.NewConflictError("A recording is already in progress")
	}

	device, ok := avail.Devices.TryAcquire()
	if !ok {
		return nil, domain.NewDeviceBusyError()
	}

	rec := &recording{
		device:      device,
		language:    language,
		contentType: contentType,
		startedAt:   time.Now(),
	}
	if s.cfg.MaxDuration > 0 {
		rec.timer = time.AfterFunc(s.cfg.MaxDuration, func() {
			if s.discard(sessionID, rec, true) {
				logger.ForSession(sessionID).Info("Recording timed out")
			}
		})
	}
	s.recordings[sessionID] = rec
	delete(s.timedOut, sessionID)

	return &RecordingInfo{
		Language:    language,
		DeviceID:    device.ID(),
		StartedAt:   rec.startedAt,
		MaxDuration: s.cfg.MaxDuration,
	}, nil
}

// AppendAudio buffers a chunk of the active recording and returns the buffered size.
// Going over the size limit ends the recording.
func (s *Service) AppendAudio(sessionID string, chunk []byte) (int, error) {
	s.mu.Lock()
	rec, ok := s.recordings[sessionID]
	if !ok {
		_, expired := s.timedOut[sessionID]
		s.mu.Unlock()
		if expired {
			return 0, timedOutError()
		}
		return 0, domain.NewConflictError("No recording in progress")
	}
	if s.cfg.MaxAudioBytes > 0 && rec.buf.Len()+len(chunk) > s.cfg.MaxAudioBytes {
		s.mu.Unlock()
		s.discard(sessionID, rec, false)
		return 0, domain.ValidationErrors{
			domain.NewFieldError("audio", "Recording is too long and was stopped"),
		}
	}
	rec.buf.Write(chunk)
	n := rec.buf.Len()
	s.mu.Unlock()
	return n, nil
}

// Stop ends the recording and transcribes it once. The device is released on
// every path. A recording that already hit the time limit reports that instead.
func (s *Service) Stop(ctx context.Context, sessionID string) (*Transcript, error) {
	s.mu.Lock()
	rec, ok := s.recordings[sessionID]
	if ok {
		delete(s.recordings, sessionID)
	}
	_, expired := s.timedOut[sessionID]
	delete(s.timedOut, sessionID)
	s.mu.Unlock()
	if !ok {
		if expired {
			return nil, timedOutError()
		}
		return nil, domain.NewConflictError("No recording in progress")
	}
	defer rec.device.Release()
	if rec.timer != nil {
		rec.timer.Stop()
	}

	if rec.buf.Len() == 0 {
		return &Transcript{}, nil
	}

	avail, _ := s.recognition.(Available)
	text, err := avail.Transcriber.Transcribe(ctx, domain.AudioClip{
		Data:        rec.buf.Bytes(),
		ContentType: rec.contentType,
		Language:    rec.language,
		Filename:    filenameFor(rec.contentType),
	})
	if err != nil {
		logger.Get().Error("Speech recognition failed",
			zap.String("session_id", sessionID),
			zap.Int("audio_bytes", rec.buf.Len()),
			zap.Error(err))
		return nil, domain.NewSpeechServiceError(msgRecognitionFailed, err)
	}
	return &Transcript{Text: strings.TrimSpace(text), Final: true}, nil
}

// Cancel drops the session's recording, if any, without transcribing it.
func (s *Service) Cancel(sessionID string) bool {
	s.mu.Lock()
	rec, ok := s.recordings[sessionID]
	delete(s.timedOut, sessionID)
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.discard(sessionID, rec, false)
}

// ClearSession is the logout hook.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	s.Cancel(sessionID)
	return nil
}

// Close releases every held device and refuses new recordings.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	recs := s.recordings
	s.recordings = make(map[string]*recording)
	s.timedOut = make(map[string]struct{})
	s.mu.Unlock()

	for _, rec := range recs {
		if rec.timer != nil {
			rec.timer.Stop()
		}
		rec.device.Release()
	}
}

// Speak synthesizes text with the given voice settings; zero values take the defaults.
func (s *Service) Speak(ctx context.Context, text, language string, rate, pitch float64) (*domain.SpeechAudio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("text")}
	}
	if s.synthesizer == nil {
		return nil, domain.NewNotSupportedError(domain.MsgSynthesisMissing)
	}
	if language == "" {
		language = DefaultLanguage
	}
	if rate == 0 {
		rate = DefaultRate
	}
	if pitch == 0 {
		pitch = DefaultPitch
	}

	audio, err := s.synthesizer.Synthesize(ctx, domain.Utterance{Text: text, Language: language, Rate: rate, Pitch: pitch})
	if err != nil {
		return nil, domain.NewSpeechServiceError(msgSynthesisFailed, err)
	}
	return audio, nil
}

// discard removes rec if it is still the session's recording and releases its device.
// expired leaves a mark so the next Stop can say why the recording is gone.
func (s *Service) discard(sessionID string, rec *recording, expired bool) bool {
	s.mu.Lock()
	current, ok := s.recordings[sessionID]
	if !ok || current != rec {
		s.mu.Unlock()
		return false
	}
	delete(s.recordings, sessionID)
	if expired {
		s.timedOut[sessionID] = struct{}{}
	}
	s.mu.Unlock()

	if rec.timer != nil {
		rec.timer.Stop()
	}
	rec.device.Release()
	return true
}

func timedOutError() error {
	return domain.ValidationErrors{domain.NewFieldError("audio", msgRecordingTimedOut)}
}

func filenameFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "wav"):
		return "recording.wav"
	case strings.Contains(contentType, "ogg"):
		return "recording.ogg"
	case strings.Contains(contentType, "mpeg"), strings.Contains(contentType, "mp3"):
		return "recording.mp3"
	case strings.Contains(contentType, "mp4"), strings.Contains(contentType, "m4a"):
		return "recording.m4a"
	default:
		return "recording.webm"
	}
}
