package domain

import (
	"context"
	"time"
)

// UploadFile is the payload handed to a FileUploader.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Purpose     string
}

// UploadedFile is what the upload service reports back.
type UploadedFile struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileUploader forwards a file to an external store.
type FileUploader interface {
	Upload(ctx context.Context, file UploadFile) (*UploadedFile, error)
}

// ImageSelection is the image currently picked in one session.
type ImageSelection struct {
	PreviewID   string        `json:"previewId"`
	Filename    string        `json:"filename"`
	ContentType string        `json:"contentType"`
	Size        int64         `json:"size"`
	// Processing mirrors the upload lock and is never stored.
	Processing  bool          `json:"-"`
	LastUpload  *UploadedFile `json:"lastUpload,omitempty"`
	SelectedAt  time.Time     `json:"selectedAt"`
}
