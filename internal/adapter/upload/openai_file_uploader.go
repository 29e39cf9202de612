package upload

import (
	"context"
	"fmt"
	"time"

	"learn-assist/internal/adapter/openaiapi"
	"learn-assist/internal/domain"

	"github.com/openai/openai-go"
)

// OpenAIFileUploader implements domain.FileUploader with the OpenAI-compatible Files API.
type OpenAIFileUploader struct {
	client openai.Client
}

func NewOpenAIFileUploader(apiKey, baseURL string, timeout time.Duration) (*OpenAIFileUploader, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("upload API key cannot be empty")
	}
	return &OpenAIFileUploader{client: openaiapi.NewClient(apiKey, baseURL, timeout)}, nil
}

// Upload posts the file with its purpose tag and returns the service's file record.
func (u *OpenAIFileUploader) Upload(ctx context.Context, file domain.UploadFile) (*domain.UploadedFile, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("upload file %q is empty", file.Filename)
	}

	obj, err := u.client.Files.New(ctx, openai.FileNewParams{
		File:    openaiapi.NewNamedFile(file.Data, file.Filename, file.ContentType),
		Purpose: openai.FilePurpose(file.Purpose),
	})
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	filename := obj.Filename
	if filename == "" {
		filename = file.Filename
	}
	return &domain.UploadedFile{
		ID:        obj.ID,
		Filename:  filename,
		Bytes:     obj.Bytes,
		CreatedAt: time.Unix(obj.CreatedAt, 0).UTC(),
	}, nil
}
