package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvault-dev/pixelvault/internal/config"
	"github.com/pixelvault-dev/pixelvault/internal/domain"
	internal_errors "github.com/pixelvault-dev/pixelvault/internal/errors"
	"github.com/pixelvault-dev/pixelvault/internal/markdown"
)

// MockImageService implements the service.ImageService interface
type MockImageService struct {
	MockCreate     func(ctx context.Context, data domain.ImageCreationData) (string, error)
	MockGet        func(ctx context.Context, id string) (*domain.Image, error)
	MockDelete     func(ctx context.Context, id string) (bool, error)
	MockListRecent func(ctx context.Context, limit int) ([]domain.ImageMetadata, error)
}

func (m *MockImageService) Create(ctx context.Context, data domain.ImageCreationData) (string, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, data)
	}
	return data.Id, nil
}

func (m *MockImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, id)
	}
	return &domain.Image{Id: id}, nil
}

func (m *MockImageService) Delete(ctx context.Context, id string) (bool, error) {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, id)
	}
	return true, nil
}

func (m *MockImageService) ListRecent(ctx context.Context, limit int) ([]domain.ImageMetadata, error) {
	if m.MockListRecent != nil {
		return m.MockListRecent(ctx, limit)
	}
	return []domain.ImageMetadata{}, nil
}

// Setup function to create handler with mock service
func setupImageTestHandler(imageService *MockImageService) *chi.Mux {
	h := &Handler{
		image:    imageService,
		captions: markdown.New(),
		cfg:      &config.Config{},
	}
	r := chi.NewRouter()
	r.Post("/api/images", h.SaveImage)
	r.Get("/api/images", h.ListImages)
	r.Get("/api/images/{imageId}", h.GetImage)
	r.Delete("/api/images/{imageId}", h.DeleteImage)
	return r
}

func validSaveBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"imageId":       "abc123",
		"imageData":     "base64-payload",
		"message":       "a caption",
		"expiresAt":     time.Now().Add(time.Hour).Format(time.RFC3339),
		"allowDownload": true,
	})
	require.NoError(t, err)
	return body
}

func TestSaveImageHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		mockService := &MockImageService{
			MockCreate: func(ctx context.Context, data domain.ImageCreationData) (string, error) {
				assert.Equal(t, "abc123", data.Id)
				assert.Equal(t, "base64-payload", data.Data)
				assert.Equal(t, "a caption", data.Message)
				assert.True(t, data.AllowDownload)
				return data.Id, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/images", bytes.NewBuffer(validSaveBody(t)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "abc123", resp["imageId"])
	})

	t.Run("invalid request body json", func(t *testing.T) {
		router := setupImageTestHandler(&MockImageService{})

		req := httptest.NewRequest(http.MethodPost, "/api/images", bytes.NewBufferString(`{invalid json::}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		mockService := &MockImageService{
			MockCreate: func(ctx context.Context, data domain.ImageCreationData) (string, error) {
				t.Fatal("service must not be called for invalid input")
				return "", nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/images", bytes.NewBufferString(`{"imageId":"abc123"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate id maps to 400", func(t *testing.T) {
		mockService := &MockImageService{
			MockCreate: func(ctx context.Context, data domain.ImageCreationData) (string, error) {
				return "", &internal_errors.DuplicateIdError{Id: data.Id}
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/images", bytes.NewBuffer(validSaveBody(t)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Image ID already exists")
	})

	t.Run("store unavailable maps to 503", func(t *testing.T) {
		mockService := &MockImageService{
			MockCreate: func(ctx context.Context, data domain.ImageCreationData) (string, error) {
				return "", &internal_errors.StoreUnavailableError{Err: assert.AnError}
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/images", bytes.NewBuffer(validSaveBody(t)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestGetImageHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour).UTC()
		mockService := &MockImageService{
			MockGet: func(ctx context.Context, id string) (*domain.Image, error) {
				assert.Equal(t, "abc123", id)
				return &domain.Image{
					Id:            id,
					Data:          "base64-payload",
					Message:       "look *closer*",
					ExpiresAt:     expiresAt,
					ViewCount:     7,
					AllowDownload: true,
				}, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images/abc123", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "base64-payload", resp["imageData"])
		assert.Equal(t, "look *closer*", resp["message"])
		assert.Equal(t, "<p>look <em>closer</em></p>", resp["messageHtml"])
		assert.Equal(t, float64(7), resp["viewCount"])
		assert.Equal(t, true, resp["allowDownload"])
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		mockService := &MockImageService{
			MockGet: func(ctx context.Context, id string) (*domain.Image, error) {
				return nil, &internal_errors.NotFoundError{Id: id}
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images/missing", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("expired maps to 410", func(t *testing.T) {
		mockService := &MockImageService{
			MockGet: func(ctx context.Context, id string) (*domain.Image, error) {
				return nil, &internal_errors.ExpiredError{Id: id}
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images/lapsed", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGone, rr.Code)
		assert.Contains(t, rr.Body.String(), "Image has expired")
	})

	t.Run("unclassified store error maps to 500", func(t *testing.T) {
		mockService := &MockImageService{
			MockGet: func(ctx context.Context, id string) (*domain.Image, error) {
				return nil, assert.AnError
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images/abc123", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestDeleteImageHandler(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mockService := &MockImageService{
			MockDelete: func(ctx context.Context, id string) (bool, error) {
				assert.Equal(t, "abc123", id)
				return true, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/api/images/abc123", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Image deleted successfully")
	})

	t.Run("missing id maps to 404", func(t *testing.T) {
		mockService := &MockImageService{
			MockDelete: func(ctx context.Context, id string) (bool, error) {
				return false, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/api/images/missing", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListImagesHandler(t *testing.T) {
	t.Run("returns summaries", func(t *testing.T) {
		now := time.Now().UTC()
		mockService := &MockImageService{
			MockListRecent: func(ctx context.Context, limit int) ([]domain.ImageMetadata, error) {
				return []domain.ImageMetadata{
					{Id: "newer", CreatedAt: now, ExpiresAt: now.Add(time.Hour), ViewCount: 2},
					{Id: "older", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(time.Hour)},
				}, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Success bool `json:"success"`
			Count   int  `json:"count"`
			Images  []struct {
				ImageId   string `json:"imageId"`
				ViewCount uint64 `json:"viewCount"`
			} `json:"images"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Images, 2)
		assert.Equal(t, "newer", resp.Images[0].ImageId)
		// Payload and caption never appear in summaries.
		assert.NotContains(t, rr.Body.String(), "imageData")
	})

	t.Run("limit is forwarded", func(t *testing.T) {
		var gotLimit int
		mockService := &MockImageService{
			MockListRecent: func(ctx context.Context, limit int) ([]domain.ImageMetadata, error) {
				gotLimit = limit
				return []domain.ImageMetadata{}, nil
			},
		}
		router := setupImageTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/api/images?limit=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, gotLimit)
	})

	t.Run("invalid limit maps to 400", func(t *testing.T) {
		router := setupImageTestHandler(&MockImageService{})

		req := httptest.NewRequest(http.MethodGet, "/api/images?limit=abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty store returns empty list", func(t *testing.T) {
		router := setupImageTestHandler(&MockImageService{})

		req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Count  int               `json:"count"`
			Images []json.RawMessage `json:"images"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
		assert.Empty(t, resp.Images)
	})
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("%s\n", `{"message":"hello"}`), rr.Body.String())
}
