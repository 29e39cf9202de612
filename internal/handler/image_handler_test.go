package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImageHandler_SelectImage(t *testing.T) {
	var gotName, gotType string
	var gotData []byte
	svc := &MockImageService{
		SelectImageFunc: func(ctx context.Context, sessionID, filename, contentType string, data []byte) (*dto.ImageSelectionResponse, error) {
			gotName, gotType, gotData = filename, contentType, data
			if contentType != "image/png" {
				return nil, domain.NewUnsupportedMediaError(contentType)
			}
			return &dto.ImageSelectionResponse{Selected: true, PreviewURL: "/api/images/preview/abc", Filename: filename}, nil
		},
	}
	h := handler.NewImageHandler(svc)
	app := newTestApp()
	app.Post("/api/images", h.SelectImage)

	body, ct := multipartImage(t, "image", "cat.png", "image/png", []byte("\x89PNG fake"))
	req := httptest.NewRequest("POST", "/api/images", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cat.png", gotName)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("\x89PNG fake"), gotData)

	var selection dto.ImageSelectionResponse
	decodeBody(t, resp, &selection)
	assert.True(t, selection.Selected)

	body, ct = multipartImage(t, "image", "notes.txt", "text/plain", []byte("hello"))
	req = httptest.NewRequest("POST", "/api/images", body)
	req.Header.Set("Content-Type", ct)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	body, ct = multipartImage(t, "other", "cat.png", "image/png", []byte("x"))
	req = httptest.NewRequest("POST", "/api/images", body)
	req.Header.Set("Content-Type", ct)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImageHandler_UploadResetPreview(t *testing.T) {
	resets := 0
	svc := &MockImageService{
		UploadFunc: func(ctx context.Context, sessionID string) (*dto.UploadResponse, error) {
			return &dto.UploadResponse{Message: "Image uploaded successfully!", File: &domain.UploadedFile{ID: "file-1"}}, nil
		},
		ResetFunc: func(ctx context.Context, sessionID string) error {
			resets++
			return nil
		},
		PreviewFunc: func(ctx context.Context, sessionID, previewID string) (string, []byte, error) {
			if previewID != "abc" {
				return "", nil, domain.NewNotFoundError("Preview expired")
			}
			return "image/png", []byte("png-bytes"), nil
		},
	}
	h := handler.NewImageHandler(svc)
	app := newTestApp()
	app.Post("/api/images/upload", h.Upload)
	app.Delete("/api/images", h.Reset)
	app.Get("/api/images/preview/:id", h.Preview)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/images/upload", nil))
	require.NoError(t, err)
	var upload dto.UploadResponse
	decodeBody(t, resp, &upload)
	assert.Equal(t, "Image uploaded successfully!", upload.Message)
	assert.Equal(t, "file-1", upload.File.ID)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/images", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, resets)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/images/preview/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), readBody(t, resp))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/images/preview/zzz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
