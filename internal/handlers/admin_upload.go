// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fstop/internal/gallery"
	"fstop/internal/imaging"
)

const maxUploadSize = 50 << 20 // 50 MB per request

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PhotosUpload accepts a multipart batch of image files, stores each
// original and a generated thumbnail, and appends the photos to the
// category. A batch where only some files fail answers 207 with
// per-file counts; the successful photos stay.
func (a *Admin) PhotosUpload(w http.ResponseWriter, r *http.Request) {
	catID := chi.URLParam(r, "id")

	if a.storageClient == nil {
		writeErrorMsg(w, "File storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeErrorMsg(w, "Upload too large or malformed.", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeErrorMsg(w, "No files in upload.", http.StatusBadRequest)
		return
	}

	inputs := make([]gallery.PhotoInput, 0, len(files))
	var storeErrs []string
	for _, fh := range files {
		in, err := a.storePhotoFile(r, catID, fh)
		if err != nil {
			slog.Warn("photo upload rejected", "file", fh.Filename, "error", err)
			storeErrs = append(storeErrs, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		inputs = append(inputs, *in)
	}

	if len(inputs) == 0 {
		writeErrorMsg(w, "No files could be stored: "+strings.Join(storeErrs, "; "), http.StatusBadRequest)
		return
	}

	photos, err := a.galleries.AddPhotos(r.Context(), catID, inputs)
	if err != nil && len(photos) == 0 {
		writeError(w, err)
		return
	}

	failed := len(files) - len(photos)
	status := http.StatusCreated
	if failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, map[string]any{
		"succeeded": len(photos),
		"failed":    failed,
		"photos":    photos,
	})
}

// storePhotoFile sniffs the file type, uploads the original and a
// thumbnail to object storage, and returns the photo input for the
// gallery service.
func (a *Admin) storePhotoFile(r *http.Request, catID string, fh *multipart.FileHeader) (*gallery.PhotoInput, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %s", contentType)
	}

	base := "photos/" + catID + "/" + uuid.NewString()
	key := base + ext
	if err := a.storageClient.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}

	in := gallery.PhotoInput{
		Src:     a.storageClient.FileURL(key),
		Caption: captionFromFilename(fh.Filename),
	}

	// A photo without a thumbnail still works; the gallery falls back
	// to the original.
	thumb, err := imaging.Generate(data)
	if err != nil {
		slog.Warn("thumbnail generation failed", "file", fh.Filename, "error", err)
		return &in, nil
	}
	thumbKey := base + "_thumb.jpg"
	if err := a.storageClient.Upload(r.Context(), thumbKey, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
		slog.Warn("thumbnail upload failed", "file", fh.Filename, "error", err)
		return &in, nil
	}
	in.ThumbSrc = a.storageClient.FileURL(thumbKey)
	return &in, nil
}

// captionFromFilename turns "misty-ridge_01.jpg" into "misty ridge 01".
func captionFromFilename(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
