package daemon

import (
	"encoding/json"
	"net/http"
	"strings"

	"corkboard/internal/store"
	"corkboard/internal/types"
)

func (a *API) NotesCollection(w http.ResponseWriter, r *http.Request) {
	service := a.newNoteService()
	switch r.Method {
	case http.MethodGet:
		notes, err := service.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
	case http.MethodPost:
		var req types.Note
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		note, err := service.Create(r.Context(), &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	default:
		methodNotAllowed(w)
	}
}

func (a *API) NoteByID(w http.ResponseWriter, r *http.Request) {
	service := a.newNoteService()
	path := strings.TrimPrefix(r.URL.Path, "/v1/notes/")
	id := strings.TrimSpace(strings.Trim(path, "/"))
	if id == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req store.NotePatch
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		note, err := service.Patch(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, note)
	case http.MethodDelete:
		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		methodNotAllowed(w)
	}
}
