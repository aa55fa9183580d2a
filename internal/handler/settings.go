package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"bizpos-backend/internal/server/authctx"
	"bizpos-backend/internal/service"
	"bizpos-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxSettingsBody = 1 << 20

// SettingsHandler serves the settings document of one business.
type SettingsHandler struct {
	Service service.SettingsService
}

// RegisterReadRoutes mounts the routes every signed-in role may use.
func (h SettingsHandler) RegisterReadRoutes(r chi.Router) {
	r.Get("/settings/schema", h.schema)
	r.Get("/businesses/{businessID}/settings", h.get)
	r.Get("/businesses/{businessID}/settings/sectors", h.sectors)
	r.Get("/businesses/{businessID}/settings/section/{section}", h.section)
}

// RegisterWriteRoutes mounts the routes that change or export settings.
func (h SettingsHandler) RegisterWriteRoutes(r chi.Router) {
	r.Put("/businesses/{businessID}/settings", h.replace)
	r.Post("/businesses/{businessID}/settings/validate", h.validate)
	r.Get("/businesses/{businessID}/settings/export", h.export)
	r.Get("/businesses/{businessID}/settings/audit", h.audit)
	r.Patch("/businesses/{businessID}/settings/section/{section}", h.setField)
	r.Post("/businesses/{businessID}/settings/section/{section}/{list}", h.addListItem)
	r.Patch("/businesses/{businessID}/settings/section/{section}/{list}/{itemID}", h.updateListItem)
	r.Delete("/businesses/{businessID}/settings/section/{section}/{list}/{itemID}", h.removeListItem)
	r.Put("/businesses/{businessID}/settings/section/{section}/{list}/{itemID}/exclusive/{flag}", h.setExclusiveFlag)
}

type fieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (h SettingsHandler) schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.SettingsSchema())
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.Current(r.Context(), businessID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h SettingsHandler) sectors(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Sectors(r.Context(), businessID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h SettingsHandler) section(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	v, err := h.Service.Section(r.Context(), businessID, chi.URLParam(r, "section"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h SettingsHandler) replace(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	var req domain.BusinessSettings
	if err := decodeStrict(r, &req); err != nil {
		writeErrorWithErr(w, http.StatusBadRequest, "invalid payload", err)
		return
	}
	snap, err := h.Service.Replace(r.Context(), user.ID, businessID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h SettingsHandler) validate(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := authorizeBusiness(w, r); !ok {
		return
	}
	var req domain.BusinessSettings
	if err := decodeStrict(r, &req); err != nil {
		writeErrorWithErr(w, http.StatusBadRequest, "invalid payload", err)
		return
	}
	violations := h.Service.Validate(&req)
	if violations == nil {
		violations = validation.Violations{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":      !violations.HasErrors(),
		"violations": violations,
	})
}

func (h SettingsHandler) export(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.Current(r.Context(), businessID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out, err := service.ExportSettings(snap.Settings, r.URL.Query().Get("format"))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := fmt.Sprintf("settings_%s_%s.%s", businessID, time.Now().Format("20060102_150405"), out.Extension)
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(out.Data)
}

func (h SettingsHandler) audit(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	entries, err := h.Service.AuditLog(r.Context(), businessID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"id":        e.ID,
			"actor":     e.Actor,
			"operation": e.Operation,
			"path":      e.Path,
			"type":      e.Type,
			"loggedAt":  e.LoggedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h SettingsHandler) setField(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	req, ok := decodeFieldRequest(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.SetField(r.Context(), user.ID, businessID, chi.URLParam(r, "section"), req.Field, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h SettingsHandler) addListItem(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	snap, id, err := h.Service.AddListItem(r.Context(), user.ID, businessID,
		chi.URLParam(r, "section"), chi.URLParam(r, "list"), json.RawMessage(body))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"snapshot": snap,
	})
}

func (h SettingsHandler) updateListItem(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	req, ok := decodeFieldRequest(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.UpdateListItem(r.Context(), user.ID, businessID,
		chi.URLParam(r, "section"), chi.URLParam(r, "list"), chi.URLParam(r, "itemID"), req.Field, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h SettingsHandler) removeListItem(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.RemoveListItem(r.Context(), user.ID, businessID,
		chi.URLParam(r, "section"), chi.URLParam(r, "list"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h SettingsHandler) setExclusiveFlag(w http.ResponseWriter, r *http.Request) {
	user, businessID, ok := authorizeBusiness(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.SetExclusiveFlag(r.Context(), user.ID, businessID,
		chi.URLParam(r, "section"), chi.URLParam(r, "list"), chi.URLParam(r, "itemID"), chi.URLParam(r, "flag"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// authorizeBusiness resolves the business in the URL and checks that the
// caller may act on it. Admins may address any business.
func authorizeBusiness(w http.ResponseWriter, r *http.Request) (*authctx.CurrentUser, string, bool) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}
	businessID := chi.URLParam(r, "businessID")
	if !user.CanAccessBusiness(businessID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, "", false
	}
	return user, businessID, true
}

func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxSettingsBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func decodeFieldRequest(w http.ResponseWriter, r *http.Request) (fieldRequest, bool) {
	var req fieldRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return req, false
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return req, false
	}
	if len(bytes.TrimSpace(req.Value)) == 0 {
		req.Value = json.RawMessage("null")
	}
	return req, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeViolations(w, verr.Violations)
	case errors.Is(err, editor.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrInvalidSectionPath),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrNotAList),
		errors.Is(err, editor.ErrTypeMismatch),
		errors.Is(err, editor.ErrReadOnlyField),
		errors.Is(err, service.ErrInvalidBusinessID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLoadFailed):
		writeError(w, http.StatusInternalServerError, "failed to load settings")
	case errors.Is(err, service.ErrSaveFailed):
		writeError(w, http.StatusInternalServerError, "failed to save settings")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
