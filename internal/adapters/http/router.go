package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
	"github.com/voxpaper/paper-narrator/internal/core/ports"
)

type Router struct {
	submitter ports.PaperSubmitter
	jobs      ports.JobReader
	storage   ports.ObjectStorage
}

func NewRouter(
	submitter ports.PaperSubmitter,
	jobs ports.JobReader,
	storage ports.ObjectStorage,
) *Router {
	return &Router{
		submitter: submitter,
		jobs:      jobs,
		storage:   storage,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/papers", rt.submitPaper)
	mux.HandleFunc("/v1/jobs/", rt.jobSubtree)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitPaper(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	opts, err := parseConversionOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	job, err := rt.submitter.Submit(r.Context(), fileHeader.Filename, file, opts)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

// parseConversionOptions reads submission knobs from the multipart form.
// Bad values are rejected here, before any job record or file exists.
func parseConversionOptions(r *http.Request) (domain.ConversionOptions, error) {
	var opts domain.ConversionOptions

	var err error
	if opts.IncludeMetadata, err = parseBoolField(r, "include_metadata"); err != nil {
		return domain.ConversionOptions{}, err
	}
	if opts.RunEvaluation, err = parseBoolField(r, "run_evaluation"); err != nil {
		return domain.ConversionOptions{}, err
	}

	if raw := strings.TrimSpace(r.FormValue("chunk_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return domain.ConversionOptions{}, domain.WrapError(domain.ErrInvalidInput, "parse options", errInvalidField("chunk_size", raw))
		}
		opts.ChunkSize = size
	}

	if raw := strings.TrimSpace(r.FormValue("voice")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Voice); err != nil {
			return domain.ConversionOptions{}, domain.WrapError(domain.ErrInvalidInput, "parse options", errInvalidField("voice", raw))
		}
	}

	return opts, nil
}

func parseBoolField(r *http.Request, field string) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.WrapError(domain.ErrInvalidInput, "parse options", errInvalidField(field, raw))
	}
	return value, nil
}

func (rt *Router) jobSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "job id is required"})
		return
	}

	switch sub {
	case "":
		rt.getJob(w, r, id)
	case "audio":
		rt.getJobAudio(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request, id string) {
	job, err := rt.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) getJobAudio(w http.ResponseWriter, r *http.Request, id string) {
	job, err := rt.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	if job.Status != domain.StatusCompleted || job.AudioPath == "" {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "narration is not ready",
			"status": string(job.Status),
		})
		return
	}

	audio, err := rt.storage.Open(r.Context(), job.AudioPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "open narration artifact"})
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, audio)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
