package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"anglegen/internal/catalog"
	"anglegen/internal/genai"
	"anglegen/internal/generation"
)

type itemView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Image     []byte `json:"image,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type sessionResponse struct {
	ID    string     `json:"id"`
	Items []itemView `json:"items"`
}

func itemViews(items []generation.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{
			ID:        it.ID,
			Title:     it.Title,
			Status:    string(it.Status),
			Image:     it.Image,
			Error:     it.Error,
			ErrorKind: it.ErrorKind,
		})
	}
	return out
}

// CreateSession accepts a multipart image upload and opens a new generation
// session around it, with one pending item per configured angle.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	src, err := a.readSourceImage(w, r)
	if err != nil {
		return
	}
	sess := a.Sessions.Create(src)
	a.json(w, http.StatusCreated, sessionResponse{ID: sess.ID, Items: itemViews(sess.Snapshot())})
}

// ReplaceSource swaps the session's source image for a new upload and resets
// every item back to pending. In-flight results for the old source are
// discarded when they land.
func (a *App) ReplaceSource(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	src, err := a.readSourceImage(w, r)
	if err != nil {
		return
	}
	sess.ReplaceSource(src)
	a.json(w, http.StatusOK, sessionResponse{ID: sess.ID, Items: itemViews(sess.Snapshot())})
}

type generateRequest struct {
	Detail  string `json:"detail"`
	StyleID string `json:"style_id"`
}

// Generate kicks off one generation per angle in the background and returns
// immediately; clients poll the items endpoint for progress.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
	}
	if req.StyleID != "" {
		if _, ok := catalog.StyleByID(req.StyleID); !ok {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown style %q", req.StyleID))
			return
		}
	}
	sess.SetInputs(req.Detail, req.StyleID)

	go a.Orchestrator.GenerateAll(context.Background(), sess)

	a.json(w, http.StatusAccepted, map[string]string{"session_id": sess.ID, "status": "GENERATING"})
}

// RegenerateItem re-runs a single angle with the session's current inputs.
// An unknown angle identifier is accepted and ignored.
func (a *App) RegenerateItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	angleID := chi.URLParam(r, "angleID")

	go a.Orchestrator.RegenerateOne(context.Background(), sess, angleID)

	a.json(w, http.StatusAccepted, map[string]string{"session_id": sess.ID, "status": "GENERATING"})
}

// ListItems returns a snapshot of every item's current state in
// configuration order.
func (a *App) ListItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, sessionResponse{ID: sess.ID, Items: itemViews(sess.Snapshot())})
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*generation.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := a.Sessions.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return sess, true
}

type uploadRequest struct {
	Image    []byte `json:"image"`
	MIMEType string `json:"mime_type"`
}

// readSourceImage pulls the uploaded image out of the request, either as a
// multipart file under "image" or as a JSON body with base64 data, and
// rejects anything that is not an image. On failure it writes the error
// response itself and returns a non-nil error.
func (a *App) readSourceImage(w http.ResponseWriter, r *http.Request) (genai.SourceImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Cfg.MaxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return a.readJSONSource(w, r)
	}

	if err := r.ParseMultipartForm(a.Cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "uploaded file exceeds the size limit")
			return genai.SourceImage{}, err
		}
		a.error(w, http.StatusBadRequest, "bad_request", "expected a multipart form upload")
		return genai.SourceImage{}, err
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return genai.SourceImage{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read uploaded file")
		return genai.SourceImage{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	return a.checkSourceImage(w, data, mimeType)
}

func (a *App) readJSONSource(w http.ResponseWriter, r *http.Request) (genai.SourceImage, error) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "uploaded file exceeds the size limit")
			return genai.SourceImage{}, err
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return genai.SourceImage{}, err
	}
	if len(req.Image) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "image data is required")
		return genai.SourceImage{}, errors.New("handlers: empty image payload")
	}
	return a.checkSourceImage(w, req.Image, req.MIMEType)
}

func (a *App) checkSourceImage(w http.ResponseWriter, data []byte, mimeType string) (genai.SourceImage, error) {
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		a.error(w, http.StatusBadRequest, "invalid_file", "only image uploads are accepted")
		return genai.SourceImage{}, fmt.Errorf("handlers: unsupported upload type %q", mimeType)
	}
	return genai.SourceImage{Data: data, MIMEType: mimeType}, nil
}
