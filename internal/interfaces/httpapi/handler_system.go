package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
)

const imageNotFoundMessage = "Image not found."

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Liveness")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "Backend is running."})
}

// ServeImage streams a rendered chart. Anything that is not a regular file
// inside the image directory is reported as not found.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ServeImage")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("filename"))
	if name == "" || !fs.ValidPath(name) {
		writeJSON(ctx, w, http.StatusNotFound, errorBody{Error: imageNotFoundMessage})
		return
	}

	info, err := fs.Stat(h.images, name)
	if err != nil || !info.Mode().IsRegular() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.logger.WarnContext(ctx, "stat image failed", "file", name, "error", err)
		}
		writeJSON(ctx, w, http.StatusNotFound, errorBody{Error: imageNotFoundMessage})
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, h.images, name)
}
