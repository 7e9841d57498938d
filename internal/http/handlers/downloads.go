package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"anglegen/internal/generation"
	"anglegen/pkg/zip"
)

// DownloadItem streams one successfully generated image as a PNG attachment.
func (a *App) DownloadItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	item, ok := sess.Item(chi.URLParam(r, "angleID"))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "unknown angle")
		return
	}
	if item.Status != generation.StatusSuccess {
		a.error(w, http.StatusConflict, "not_ready", "the image has not been generated yet")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename(item.Title)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(item.Image)
}

// DownloadArchive bundles every successfully generated image into one zip.
func (a *App) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var assets []zip.Asset
	for _, item := range sess.Snapshot() {
		if item.Status != generation.StatusSuccess {
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: downloadFilename(item.Title),
			MIME:     "image/png",
			Data:     item.Image,
		})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusConflict, "not_ready", "no generated images to archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="angles.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(zip.ArchiveAssets(assets))
}

// downloadFilename derives a safe attachment name from the item title.
func downloadFilename(title string) string {
	return strings.ReplaceAll(title, " ", "_") + ".png"
}
