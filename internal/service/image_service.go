package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/logger"
	"learn-assist/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	PreviewPathPrefix = "/api/images/preview/"

	msgUploadSucceeded  = "Image uploaded successfully!"
	msgNothingSelected  = "No image selected"
	msgUploadInProgress = "An image upload is already in progress."
	msgPreviewExpired   = "The selected image has expired. Please select it again."
)

// ImageService holds the image picked in each session and forwards it to the
// upload service on request.
type ImageService interface {
	SelectImage(ctx context.Context, sessionID, filename, contentType string, data []byte) (*dto.ImageSelectionResponse, error)
	Upload(ctx context.Context, sessionID string) (*dto.UploadResponse, error)
	Reset(ctx context.Context, sessionID string) error
	GetSelection(ctx context.Context, sessionID string) (*dto.ImageSelectionResponse, error)
	Preview(ctx context.Context, sessionID, previewID string) (string, []byte, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type storedPreview struct {
	SessionID   string `json:"sessionId"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type imageServiceImpl struct {
	uploader domain.FileUploader
	cache    domain.Cache
	cfg      config.UploadConfig
	now      func() time.Time
}

func NewImageService(uploader domain.FileUploader, cache domain.Cache, cfg config.UploadConfig) ImageService {
	return &imageServiceImpl{uploader: uploader, cache: cache, cfg: cfg, now: time.Now}
}

// SelectImage replaces the session's selection. Both the declared and the sniffed
// content type must be images; the previous preview is released.
func (s *imageServiceImpl) SelectImage(ctx context.Context, sessionID, filename, contentType string, data []byte) (*dto.ImageSelectionResponse, error) {
	if len(data) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	if s.cfg.MaxBytes > 0 && int64(len(data)) > s.cfg.MaxBytes {
		return nil, domain.ValidationErrors{
			domain.NewFieldError("file", fmt.Sprintf("Image must be at most %d bytes", s.cfg.MaxBytes)),
		}
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, domain.NewUnsupportedMediaError(contentType)
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, domain.NewUnsupportedMediaError(detected.String())
	}

	uploading, err := s.uploading(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if uploading {
		return nil, domain.NewConflictError(msgUploadInProgress)
	}
	previous, err := s.loadSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	selection := &domain.ImageSelection{
		PreviewID:   util.NewULID(),
		Filename:    filename,
		ContentType: detected.String(),
		Size:        int64(len(data)),
		SelectedAt:  s.now(),
	}
	preview, err := json.Marshal(storedPreview{SessionID: sessionID, ContentType: selection.ContentType, Data: data})
	if err != nil {
		return nil, domain.NewInternalError("failed to encode preview", err)
	}
	if err := s.cache.Set(ctx, cache.ImagePreviewKey(selection.PreviewID), string(preview), s.cfg.PreviewTTL); err != nil {
		return nil, domain.NewInternalError("failed to store preview", err)
	}
	if err := s.saveSelection(ctx, sessionID, selection); err != nil {
		return nil, err
	}
	if previous != nil {
		s.releasePreview(ctx, previous.PreviewID)
	}
	return toSelectionResponse(selection), nil
}

// Upload forwards the selected image. With nothing selected it does nothing.
// The upload lock expires on its own, so a crashed upload cannot wedge the session.
func (s *imageServiceImpl) Upload(ctx context.Context, sessionID string) (*dto.UploadResponse, error) {
	selection, err := s.loadSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return &dto.UploadResponse{Message: msgNothingSelected}, nil
	}

	lockKey := cache.ImageUploadLockKey(sessionID)
	acquired, err := s.cache.SetNX(ctx, lockKey, selection.PreviewID, s.cfg.InFlightTTL)
	if err != nil {
		return nil, domain.NewInternalError("failed to reserve upload slot", err)
	}
	if !acquired {
		return nil, domain.NewConflictError(msgUploadInProgress)
	}
	defer func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.ForSession(sessionID).Warn("Failed to release upload slot", zap.Error(err))
		}
	}()

	preview, err := s.loadPreview(ctx, selection.PreviewID)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		if err := s.Reset(ctx, sessionID); err != nil {
			logger.ForSession(sessionID).Warn("Failed to clear expired image selection", zap.Error(err))
		}
		return nil, domain.NewNotFoundError(msgPreviewExpired)
	}

	uploaded, upErr := s.uploader.Upload(ctx, domain.UploadFile{
		Filename:    selection.Filename,
		ContentType: preview.ContentType,
		Data:        preview.Data,
		Purpose:     s.cfg.Purpose,
	})

	if upErr == nil {
		selection.LastUpload = uploaded
		if err := s.saveSelection(context.WithoutCancel(ctx), sessionID, selection); err != nil {
			logger.ForSession(sessionID).Warn("Failed to record upload outcome", zap.Error(err))
		}
	}
	if upErr != nil {
		logger.ForSession(sessionID).Error("Image upload failed", zap.Error(upErr))
		return nil, domain.NewUploadServiceError(upErr)
	}

	logger.ForSession(sessionID).Info("Image uploaded", zap.String("file_id", uploaded.ID))
	return &dto.UploadResponse{Message: msgUploadSucceeded, File: uploaded}, nil
}

// Reset releases the preview and clears the selection.
func (s *imageServiceImpl) Reset(ctx context.Context, sessionID string) error {
	selection, err := s.loadSelection(ctx, sessionID)
	if err != nil {
		return err
	}
	if selection != nil {
		s.releasePreview(ctx, selection.PreviewID)
	}
	if err := s.cache.Delete(ctx, cache.ImageSelectionKey(sessionID)); err != nil {
		return domain.NewInternalError("failed to clear image selection", err)
	}
	return nil
}

func (s *imageServiceImpl) GetSelection(ctx context.Context, sessionID string) (*dto.ImageSelectionResponse, error) {
	selection, err := s.loadSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if selection != nil {
		if selection.Processing, err = s.uploading(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	return toSelectionResponse(selection), nil
}

// Preview returns the bytes behind a preview handle owned by sessionID.
func (s *imageServiceImpl) Preview(ctx context.Context, sessionID, previewID string) (string, []byte, error) {
	preview, err := s.loadPreview(ctx, previewID)
	if err != nil {
		return "", nil, err
	}
	if preview == nil || preview.SessionID != sessionID {
		return "", nil, domain.NewNotFoundError("Preview not found")
	}
	return preview.ContentType, preview.Data, nil
}

func (s *imageServiceImpl) ClearSession(ctx context.Context, sessionID string) error {
	return errors.Join(
		s.Reset(ctx, sessionID),
		s.cache.Delete(ctx, cache.ImageUploadLockKey(sessionID)),
	)
}

func (s *imageServiceImpl) uploading(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.cache.Get(ctx, cache.ImageUploadLockKey(sessionID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrCacheMiss):
		return false, nil
	default:
		return false, domain.NewInternalError("failed to check upload slot", err)
	}
}

func (s *imageServiceImpl) loadSelection(ctx context.Context, sessionID string) (*domain.ImageSelection, error) {
	key := cache.ImageSelectionKey(sessionID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, domain.NewInternalError("failed to load image selection", err)
	}
	var selection domain.ImageSelection
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		logger.ForSession(sessionID).Warn("Discarding malformed image selection", zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, nil
	}
	return &selection, nil
}

func (s *imageServiceImpl) saveSelection(ctx context.Context, sessionID string, selection *domain.ImageSelection) error {
	data, err := json.Marshal(selection)
	if err != nil {
		return domain.NewInternalError("failed to encode image selection", err)
	}
	if err := s.cache.Set(ctx, cache.ImageSelectionKey(sessionID), string(data), s.cfg.PreviewTTL); err != nil {
		return domain.NewInternalError("failed to save image selection", err)
	}
	return nil
}

func (s *imageServiceImpl) loadPreview(ctx context.Context, previewID string) (*storedPreview, error) {
	raw, err := s.cache.Get(ctx, cache.ImagePreviewKey(previewID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, domain.NewInternalError("failed to load preview", err)
	}
	var preview storedPreview
	if err := json.Unmarshal([]byte(raw), &preview); err != nil {
		logger.Get().Warn("Discarding malformed preview", zap.String("preview_id", previewID), zap.Error(err))
		s.releasePreview(ctx, previewID)
		return nil, nil
	}
	return &preview, nil
}

func (s *imageServiceImpl) releasePreview(ctx context.Context, previewID string) {
	if err := s.cache.Delete(ctx, cache.ImagePreviewKey(previewID)); err != nil {
		logger.Get().Warn("Failed to release preview", zap.String("preview_id", previewID), zap.Error(err))
	}
}

func toSelectionResponse(selection *domain.ImageSelection) *dto.ImageSelectionResponse {
	if selection == nil {
		return &dto.ImageSelectionResponse{}
	}
	selectedAt := selection.SelectedAt
	return &dto.ImageSelectionResponse{
		Selected:    true,
		PreviewURL:  PreviewPathPrefix + selection.PreviewID,
		Filename:    selection.Filename,
		ContentType: selection.ContentType,
		Size:        selection.Size,
		Processing:  selection.Processing,
		LastUpload:  selection.LastUpload,
		SelectedAt:  &selectedAt,
	}
}
