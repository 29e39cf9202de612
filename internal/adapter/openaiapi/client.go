package openaiapi

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// NewClient returns an openai-go client for any OpenAI-compatible endpoint.
// An empty baseURL keeps the library default.
func NewClient(apiKey, baseURL string, timeout time.Duration) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	return openai.NewClient(opts...)
}

// NamedFile is an in-memory multipart file part carrying its own name and type.
type NamedFile struct {
	io.Reader
	name        string
	contentType string
}

// NewNamedFile wraps data so the multipart encoder sends filename and content type.
func NewNamedFile(data []byte, name, contentType string) *NamedFile {
	return &NamedFile{Reader: bytes.NewReader(data), name: name, contentType: contentType}
}

func (f *NamedFile) Filename() string    { return f.name }
func (f *NamedFile) Name() string        { return f.name }
func (f *NamedFile) ContentType() string { return f.contentType }
