package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pixelvault-dev/pixelvault/internal/domain"
	"github.com/pixelvault-dev/pixelvault/internal/errors"
)

// MaxRecentLimit caps the recent list regardless of what the caller asks for.
const MaxRecentLimit = 50

type ImageService interface {
	Create(ctx context.Context, data domain.ImageCreationData) (string, error)
	Get(ctx context.Context, id string) (*domain.Image, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ImageMetadata, error)
}

type Image struct {
	storage       ImageStorage
	sanitizer     *bluemonday.Policy
	maxImageBytes int64
}

type ImageStorage interface {
	CreateImage(ctx context.Context, data domain.ImageCreationData) error
	GetImage(ctx context.Context, id string) (*domain.Image, error)
	DeleteImage(ctx context.Context, id string) (bool, error)
	ListRecentImages(ctx context.Context, limit int) ([]domain.ImageMetadata, error)
}

func NewImage(storage ImageStorage, maxImageBytes int64) *Image {
	return &Image{
		storage:       storage,
		sanitizer:     bluemonday.StrictPolicy(),
		maxImageBytes: maxImageBytes,
	}
}

func (s *Image) Create(ctx context.Context, data domain.ImageCreationData) (string, error) {
	var missing []string
	if strings.TrimSpace(data.Id) == "" {
		missing = append(missing, "imageId")
	}
	if data.Data == "" {
		missing = append(missing, "imageData")
	}
	if data.ExpiresAt.IsZero() {
		missing = append(missing, "expiresAt")
	}
	if len(missing) > 0 {
		return "", &errors.ValidationError{Message: "Missing required fields: " + strings.Join(missing, ", ")}
	}
	if int64(len(data.Data)) > s.maxImageBytes {
		return "", &errors.ValidationError{Message: fmt.Sprintf("Image data too large (max %dMB)", s.maxImageBytes>>20)}
	}

	// The caption is the only free-form text we store. Strip markup here
	// so nothing downstream has to trust it.
	data.Message = s.sanitizer.Sanitize(data.Message)

	if err := s.storage.CreateImage(ctx, data); err != nil {
		return "", err
	}
	return data.Id, nil
}

func (s *Image) Get(ctx context.Context, id string) (*domain.Image, error) {
	return s.storage.GetImage(ctx, id)
}

func (s *Image) Delete(ctx context.Context, id string) (bool, error) {
	return s.storage.DeleteImage(ctx, id)
}

func (s *Image) ListRecent(ctx context.Context, limit int) ([]domain.ImageMetadata, error) {
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.storage.ListRecentImages(ctx, limit)
}
