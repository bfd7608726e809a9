package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/amonks/taskboard/task"
)

type actionFunc func(ctx context.Context, ref string) (task.Task, error)

type actionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type taskDetailsResponse struct {
	Success bool `json:"success"`
	task.Annotated
}

type bulkActionRequest struct {
	Action  string    `json:"action"`
	Indices []bulkRef `json:"indices"`
}

type bulkActionResponse struct {
	Success bool  `json:"success"`
	Applied []int `json:"applied"`
	Skipped []int `json:"skipped"`
	Purged  int   `json:"purged"`
}

type assistResponse struct {
	Success bool `json:"success"`
	task.Plan
}

// bulkRef is a task reference in a bulk request: a JSON number is a
// position, a JSON string is a position or an ID prefix.
type bulkRef string

func (ref *bulkRef) UnmarshalJSON(data []byte) error {
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		if _, err := strconv.Atoi(number.String()); err != nil {
			return fmt.Errorf("index must be an integer: %s", number)
		}
		*ref = bulkRef(number.String())
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("index must be a number or string: %s", data)
	}
	*ref = bulkRef(value)
	return nil
}

func (h *Handler) complete(ctx context.Context, ref string) (task.Task, error) {
	result, err := h.svc.ToggleComplete(ctx, ref)
	return result.Task, err
}

func (h *Handler) handleAction(action actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		if _, err := action(r.Context(), r.PathValue("ref")); err != nil {
			h.writeActionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, actionResponse{Success: true})
	}
}

func (h *Handler) handleTaskDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	item, err := h.svc.Show(r.Context(), r.PathValue("ref"))
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskDetailsResponse{Success: true, Annotated: item})
}

func (h *Handler) handleBulkAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	var request bulkActionRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeActionError(w, r, fmt.Errorf("invalid request: %w", err))
		return
	}
	if strings.TrimSpace(request.Action) == "" || len(request.Indices) == 0 {
		h.writeActionError(w, r, errors.New("invalid request"))
		return
	}
	action, err := task.ParseBulkAction(request.Action)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}

	refs := make([]string, 0, len(request.Indices))
	for _, ref := range request.Indices {
		refs = append(refs, string(ref))
	}
	result, err := h.svc.Bulk(r.Context(), action, refs)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkActionResponse{
		Success: true,
		Applied: nonNil(result.Applied),
		Skipped: nonNil(result.Skipped),
		Purged:  result.Purged,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

func (h *Handler) handleDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Digest(r.Context()))
}

func (h *Handler) handleAssist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	ref := trimmedQueryValue(r, "idx")
	if ref == "" {
		h.writeActionError(w, r, errors.New("invalid index"))
		return
	}
	plan, err := h.svc.Plan(r.Context(), ref)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assistResponse{Success: true, Plan: plan})
}

func (h *Handler) writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	event := h.log.Debug()
	if status >= http.StatusInternalServerError {
		event = h.log.Error()
	}
	event.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	writeJSON(w, status, actionResponse{Success: false, Error: err.Error()})
}

// statusForError maps core errors to HTTP statuses. Refs that match no task,
// out-of-range positions included, are 404 and storage failures are 500.
// Validation and wrong-state errors are 400.
func statusForError(err error) int {
	switch {
	case isUnknownRef(err):
		return http.StatusNotFound
	case errors.Is(err, task.ErrStorageUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func isUnknownRef(err error) bool {
	return errors.Is(err, task.ErrTaskNotFound) || errors.Is(err, task.ErrIndexOutOfRange)
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
