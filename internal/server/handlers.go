package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/five82/skyhigh/internal/skyhigh"
	"github.com/five82/skyhigh/internal/storage"
)

const (
	rootMessage     = "Skyhigh Demo Backend is running"
	maxMessageBytes = 1 << 20
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, skyhigh.Health{Message: rootMessage})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "expected multipart form with field \"file\"", http.StatusUnprocessableEntity)
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.uploadError(w, r, err)
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		name := part.FileName()
		size, err := s.store.SaveFile(r.Context(), name, part)
		_ = part.Close()
		if err != nil {
			s.uploadError(w, r, err)
			return
		}
		s.logger.Info("file stored", "filename", name, "size", size, "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusOK, skyhigh.UploadResponse{Status: "uploaded", Filename: name, Size: size})
		return
	}
	http.Error(w, "field required: file", http.StatusUnprocessableEntity)
}

func (s *Server) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, storage.ErrEmptyName):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("upload failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		http.Error(w, "upload failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	err := r.ParseMultipartForm(maxMessageBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := r.Form["message"]; !ok {
		http.Error(w, "field required: message", http.StatusUnprocessableEntity)
		return
	}
	text := r.Form.Get("message")

	msg, err := s.store.SaveMessage(r.Context(), text)
	if err != nil {
		s.logger.Error("message failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		http.Error(w, "message failed", http.StatusInternalServerError)
		return
	}
	s.logger.Info("message stored", "id", msg.ID, "request_id", RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, skyhigh.MessageResponse{Status: "received", Message: msg.Text, ID: msg.ID})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListFiles(r.Context())
	if err != nil {
		s.logger.Error("list files failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		http.Error(w, "list files failed", http.StatusInternalServerError)
		return
	}
	out := make([]skyhigh.FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, skyhigh.FileInfo{Filename: f.Filename, Length: f.Length})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
