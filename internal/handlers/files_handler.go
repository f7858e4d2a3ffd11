package handlers

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"desynflow-backend/internal/storage"
	"desynflow-backend/internal/upload"

	"github.com/gorilla/mux"
)

type FilesHandler struct {
	Receipts *upload.Store
	Mirror   *storage.Mirror
}

func NewFilesHandler(receipts *upload.Store, mirror *storage.Mirror) *FilesHandler {
	return &FilesHandler{Receipts: receipts, Mirror: mirror}
}

// Serve streams an uploaded file. Falls back to the object-store mirror
// when the local copy is gone, which happens after host redeploys.
func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	path, err := h.Receipts.Path(filename)
	if err == nil {
		http.ServeFile(w, r, path)
		return
	}

	data, err := h.Mirror.Fetch(r.Context(), "receipts/"+filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, http.StatusBadGateway, "file temporarily unavailable")
		return
	}

	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Write(data)
}
