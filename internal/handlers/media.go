// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/imaging"
	"storefront/internal/render"
	"storefront/internal/storage"
)

const (
	// maxUploadSize is the largest accepted image upload (10 MB).
	maxUploadSize = 10 << 20

	// maxImageWidth is the width uploads are scaled down to.
	maxImageWidth = 1600
)

// allowedImageTypes maps sniffed MIME types to stored file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// uploadFolders are the object key prefixes a form may upload into.
var uploadFolders = map[string]bool{
	"categories":     true,
	"sub-categories": true,
	"stores":         true,
	"products":       true,
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Media handles image uploads from dashboard forms.
type Media struct {
	renderer *render.Renderer
	uploader Uploader
	now      func() time.Time
}

// NewMedia creates a Media handler. uploader may be nil when object storage
// is not configured; uploads then answer 503.
func NewMedia(renderer *render.Renderer, uploader Uploader) *Media {
	return &Media{renderer: renderer, uploader: uploader, now: time.Now}
}

// Upload stores one image posted as the "file" field. HTMX callers get the
// re-rendered upload widget for the form field named by ?field=, others a
// JSON {"url": ...} body.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if m.uploader == nil {
		writeMediaError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	folder := r.URL.Query().Get("folder")
	if !uploadFolders[folder] {
		writeMediaError(w, "Unknown upload folder.", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMediaError(w, "File too large. Maximum size is 10 MB.", http.StatusRequestEntityTooLarge)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeMediaError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeMediaError(w, "Failed to read file.", http.StatusInternalServerError)
		return
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedImageTypes[contentType]; !ok {
		writeMediaError(w, "Only JPEG, PNG, GIF and WebP images are allowed.", http.StatusBadRequest)
		return
	}

	// Decoding the header rejects truncated files and pixel bombs.
	if _, err := imaging.Inspect(data); err != nil {
		msg := "The file is not a valid image."
		if errors.Is(err, imaging.ErrTooLarge) {
			msg = "Image dimensions are too large."
		}
		writeMediaError(w, msg, http.StatusBadRequest)
		return
	}

	// GIFs keep their animation.
	if contentType != "image/gif" {
		resized, resizedType, err := imaging.Fit(data, maxImageWidth, imaging.DefaultQuality)
		if err != nil {
			slog.Warn("image resize failed, storing original", "error", err)
		} else if resized != nil {
			data, contentType = resized, resizedType
		}
	}

	key := storage.ObjectKey(folder, allowedImageTypes[contentType], m.now())
	url, err := m.uploader.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeMediaError(w, "Failed to upload file.", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		m.renderer.Partial(w, r, "dashboard", "image_upload", map[string]any{
			"Name":   r.URL.Query().Get("field"),
			"Value":  url,
			"Folder": folder,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// writeMediaError writes a JSON error response for media operations.
func writeMediaError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
