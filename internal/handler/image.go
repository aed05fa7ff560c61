package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pixelvault-dev/pixelvault/internal/api"
	"github.com/pixelvault-dev/pixelvault/internal/domain"
	"github.com/pixelvault-dev/pixelvault/internal/errors"
	"github.com/pixelvault-dev/pixelvault/internal/logger"
	"github.com/pixelvault-dev/pixelvault/internal/service"
	"github.com/pixelvault-dev/pixelvault/internal/utils"
)

func (h *Handler) SaveImage(w http.ResponseWriter, r *http.Request) {
	var body api.SaveImageRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.image.Create(r.Context(), domain.ImageCreationData{
		Id:            body.ImageId,
		Data:          body.ImageData,
		Message:       body.Message,
		ExpiresAt:     body.ExpiresAt,
		AllowDownload: body.AllowDownload,
	})
	if err != nil {
		// Payload and caption are never logged, only the id and outcome.
		logger.Log.Warn("image save rejected", "image_id", body.ImageId, "error", err)
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	logger.Log.Info("image saved", "image_id", id)
	writeJSON(w, http.StatusCreated, api.SaveImageResponse{
		Success: true,
		ImageId: id,
		Message: "Image saved successfully",
	})
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "imageId")

	img, err := h.image.Get(r.Context(), id)
	if err != nil {
		logger.Log.Info("image fetch failed", "image_id", id, "error", err)
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	logger.Log.Info("image retrieved", "image_id", id, "view_count", img.ViewCount)
	writeJSON(w, http.StatusOK, api.GetImageResponse{
		Success:       true,
		ImageData:     img.Data,
		Message:       img.Message,
		MessageHtml:   h.captions.Render(img.Message),
		ViewCount:     img.ViewCount,
		ExpiresAt:     img.ExpiresAt,
		AllowDownload: img.AllowDownload,
	})
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "imageId")

	deleted, err := h.image.Delete(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if !deleted {
		utils.WriteErrorAndStatusCode(w, &errors.NotFoundError{Id: id})
		return
	}

	logger.Log.Info("image deleted manually", "image_id", id)
	writeJSON(w, http.StatusOK, api.StatusResponse{
		Success: true,
		Message: "Image deleted successfully",
	})
}

func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	limit := service.MaxRecentLimit
	if limitQuery := r.URL.Query().Get("limit"); limitQuery != "" {
		parsed, err := strconv.Atoi(limitQuery)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: "invalid limit: must be an integer", StatusCode: http.StatusBadRequest})
			return
		}
		limit = parsed
	}

	images, err := h.image.ListRecent(r.Context(), limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	summaries := make([]api.ImageSummary, len(images))
	for i, img := range images {
		summaries[i] = api.ImageSummary{
			ImageId:       img.Id,
			CreatedAt:     img.CreatedAt,
			ExpiresAt:     img.ExpiresAt,
			ViewCount:     img.ViewCount,
			AllowDownload: img.AllowDownload,
		}
	}

	writeJSON(w, http.StatusOK, api.ListImagesResponse{
		Success: true,
		Count:   len(summaries),
		Images:  summaries,
	})
}
