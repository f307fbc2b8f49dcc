package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServiceHealth reports the merge pipeline's operating parameters so
// clients can discover batch bounds without a failed upload.
func (a *App) ServiceHealth(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config
	a.json(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "flower-merge",
		"limits": map[string]any{
			"min_images":    cfg.MinImagesPerRequest,
			"max_images":    cfg.MaxImagesPerRequest,
			"max_file_size": cfg.MaxFileSize,
		},
		"accepted_formats": []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		"models": map[string]string{
			"vision":         cfg.VisionModel,
			"chat":           cfg.ChatModel,
			"image_primary":  cfg.ImageModelPrimary,
			"image_fallback": cfg.ImageModelFallback,
		},
		"composition_enabled": a.Composer != nil,
	})
}

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"service": "flower-merge",
		"message": "upload flower images to generate a merged bouquet",
	})
}
