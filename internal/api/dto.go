// Package api holds the request and response DTOs of the HTTP boundary.
package api

import "time"

type SaveImageRequest struct {
	ImageId       string    `json:"imageId" validate:"required"`
	ImageData     string    `json:"imageData" validate:"required"`
	Message       string    `json:"message,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt" validate:"required"`
	AllowDownload bool      `json:"allowDownload,omitempty"`
}

type SaveImageResponse struct {
	Success bool   `json:"success"`
	ImageId string `json:"imageId"`
	Message string `json:"message"`
}

type GetImageResponse struct {
	Success       bool      `json:"success"`
	ImageData     string    `json:"imageData"`
	Message       string    `json:"message"`
	MessageHtml   string    `json:"messageHtml,omitempty"`
	ViewCount     uint64    `json:"viewCount"`
	ExpiresAt     time.Time `json:"expiresAt"`
	AllowDownload bool      `json:"allowDownload"`
}

// ImageSummary is metadata only: the payload and caption never appear in
// list responses.
type ImageSummary struct {
	ImageId       string    `json:"imageId"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	ViewCount     uint64    `json:"viewCount"`
	AllowDownload bool      `json:"allowDownload"`
}

type ListImagesResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Images  []ImageSummary `json:"images"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}
