package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// resultList is the body of the list endpoint.
type resultList struct {
	Results []core.ExamResult `json:"results"`
}

// handleUploadResult ingests one workbook synchronously and answers with
// the created result.
func (s *Server) handleUploadResult(w http.ResponseWriter, r *http.Request) {
	examID, err := uuidParam(r, "examID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := s.cfg.Upload.MaxFileSize + multipartOverhead
	if r.ContentLength > limit {
		s.respondError(w, r, fmt.Errorf("%w: request of %d bytes", core.ErrFileTooLarge, r.ContentLength))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, fmt.Errorf("%w: %w", core.ErrFileTooLarge, err))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: multipart form: %v", errBadRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = errNoFile
		}
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	req := newUploadRequest(header.Filename, header.Header.Get("Content-Type"))
	if err := req.validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.UploadExamResult(r.Context(), examID, req.FileName, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/results/"+result.ID.String())
	writeJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	examID, err := uuidParam(r, "examID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	results, err := s.service.ListExamResults(r.Context(), examID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if results == nil {
		results = []core.ExamResult{}
	}
	writeJSON(w, r, http.StatusOK, resultList{Results: results})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "resultID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.GetExamResult(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "resultID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.DeleteExamResult(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", errBadRequest, name, raw)
	}
	return id, nil
}
