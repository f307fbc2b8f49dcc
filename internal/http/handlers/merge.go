package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"bouquet/internal/providers"
)

// MergeUpload handles POST /flower-merge/upload: 4-6 flower photographs in,
// one generated bouquet image plus a short title out.
func (a *App) MergeUpload(w http.ResponseWriter, r *http.Request) {
	files, ok := a.formFiles(w, r, "images")
	if !ok {
		return
	}

	cfg := a.Config
	if len(files) < cfg.MinImagesPerRequest {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("minimum %d images required, you uploaded %d", cfg.MinImagesPerRequest, len(files)))
		return
	}
	if len(files) > cfg.MaxImagesPerRequest {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("maximum %d images allowed, you uploaded %d", cfg.MaxImagesPerRequest, len(files)))
		return
	}

	images, ok := a.readImages(w, files)
	if !ok {
		return
	}

	ctx, cancel := a.pipelineContext(r)
	defer cancel()

	result, err := a.Merger.Merge(ctx, images)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// ComposeGenerate handles POST /flower-merge/generate: 1-6 images in, the
// composition profile's {success_message, image_urls} out.
func (a *App) ComposeGenerate(w http.ResponseWriter, r *http.Request) {
	if a.Composer == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "image composition backend is not configured")
		return
	}

	files, ok := a.formFiles(w, r, "image_files")
	if !ok {
		return
	}
	if len(files) < 1 || len(files) > a.Config.MaxImagesPerRequest {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("provide 1-%d images", a.Config.MaxImagesPerRequest))
		return
	}

	images, ok := a.readImages(w, files)
	if !ok {
		return
	}

	ctx, cancel := a.pipelineContext(r)
	defer cancel()

	urls, err := a.Composer.Compose(ctx, images)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success_message": fmt.Sprintf("Generated flower composition from %d images", len(images)),
		"image_urls":      urls,
	})
}

// pipelineContext bounds the AI calls; uploads themselves are bounded by
// the server's read timeout.
func (a *App) pipelineContext(r *http.Request) (context.Context, context.CancelFunc) {
	if a.Config.AITimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), a.Config.AITimeout)
}

func (a *App) formFiles(w http.ResponseWriter, r *http.Request, field string) ([]*multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(a.Config.MaxRequestSize); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not parse multipart form")
		return nil, false
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", field+" field is required")
		return nil, false
	}
	return files, true
}

// readImages loads every uploaded file, rejecting missing or non-image
// declared content types and oversized files before any bytes reach the
// pipeline.
func (a *App) readImages(w http.ResponseWriter, files []*multipart.FileHeader) ([]providers.SourceImage, bool) {
	maxFileSize := a.Config.MaxFileSize
	images := make([]providers.SourceImage, 0, len(files))
	for i, header := range files {
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			a.error(w, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("image %d (%s) is not a valid image file, only image files are allowed", i+1, header.Filename))
			return nil, false
		}

		file, err := header.Open()
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("could not read image %d (%s)", i+1, header.Filename))
			return nil, false
		}
		data, err := io.ReadAll(io.LimitReader(file, maxFileSize+1))
		_ = file.Close()
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("could not read image %d (%s)", i+1, header.Filename))
			return nil, false
		}
		if int64(len(data)) > maxFileSize {
			a.error(w, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("image %d (%s) exceeds maximum size of %.1fMB", i+1, header.Filename, float64(maxFileSize)/(1024*1024)))
			return nil, false
		}

		images = append(images, providers.SourceImage{
			Data:        data,
			Filename:    header.Filename,
			ContentType: contentType,
		})
	}
	return images, true
}
