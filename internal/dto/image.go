package dto

import (
	"time"

	"learn-assist/internal/domain"
)

// ImageSelectionResponse is the currently selected image, if any.
type ImageSelectionResponse struct {
	Selected    bool                 `json:"selected"`
	PreviewURL  string               `json:"previewUrl,omitempty"`
	Filename    string               `json:"filename,omitempty"`
	ContentType string               `json:"contentType,omitempty"`
	Size        int64                `json:"size,omitempty"`
	Processing  bool                 `json:"processing"`
	LastUpload  *domain.UploadedFile `json:"lastUpload,omitempty"`
	SelectedAt  *time.Time           `json:"selectedAt,omitempty"`
}

type UploadResponse struct {
	Message string               `json:"message"`
	File    *domain.UploadedFile `json:"file,omitempty"`
}
