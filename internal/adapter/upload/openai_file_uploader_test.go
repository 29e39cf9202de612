package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learn-assist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIFileUploader_Upload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n fake image body")

	var gotPurpose string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPurpose = r.FormValue("purpose")
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotBody, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         "file-abc123",
			"object":     "file",
			"bytes":      len(gotBody),
			"created_at": 1700000000,
			"filename":   "cat.png",
			"purpose":    "vision",
			"status":     "processed",
		})
	}))
	defer server.Close()

	uploader, err := NewOpenAIFileUploader("gsk_test", server.URL, 5*time.Second)
	require.NoError(t, err)

	res, err := uploader.Upload(context.Background(), domain.UploadFile{
		Filename:    "cat.png",
		ContentType: "image/png",
		Data:        png,
		Purpose:     "vision",
	})
	require.NoError(t, err)

	assert.Equal(t, "vision", gotPurpose)
	assert.Equal(t, png, gotBody)
	assert.Equal(t, "file-abc123", res.ID)
	assert.Equal(t, "cat.png", res.Filename)
	assert.EqualValues(t, len(png), res.Bytes)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), res.CreatedAt)
}

func TestOpenAIFileUploader_Errors(t *testing.T) {
	_, err := NewOpenAIFileUploader("", "", time.Second)
	assert.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid purpose","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	uploader, err := NewOpenAIFileUploader("gsk_test", server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), domain.UploadFile{Filename: "cat.png", Data: nil, Purpose: "vision"})
	assert.Error(t, err)

	_, err = uploader.Upload(context.Background(), domain.UploadFile{Filename: "cat.png", ContentType: "image/png", Data: []byte("x"), Purpose: "vision"})
	assert.Error(t, err)
}
