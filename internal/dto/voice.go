package dto

type StartRecordingRequest struct {
	Language    string `json:"language,omitempty" validate:"omitempty,max=35"`
	ContentType string `json:"contentType,omitempty"`
}

type AppendAudioResponse struct {
	BufferedBytes int `json:"bufferedBytes"`
}

// SpeakRequest is text to read aloud. Zero rate or pitch means the default.
type SpeakRequest struct {
	Text     string  `json:"text" validate:"required,max=4096"`
	Language string  `json:"language,omitempty" validate:"omitempty,max=35"`
	Rate     float64 `json:"rate,omitempty" validate:"omitempty,gt=0,lte=10"`
	Pitch    float64 `json:"pitch,omitempty" validate:"omitempty,gte=0,lte=2"`
}
