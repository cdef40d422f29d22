package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/middleware"
)

// OrgHandler serves organization reference data: licenses, locations,
// floors, and the admin's own identity.
type OrgHandler struct {
	webex ports.Webex
	log   zerolog.Logger
}

func NewOrgHandler(webex ports.Webex, log zerolog.Logger) *OrgHandler {
	return &OrgHandler{webex: webex, log: log}
}

func (h *OrgHandler) creds(r *http.Request) (ports.Credentials, bool) {
	admin := middleware.AdminFromContext(r.Context())
	if admin == nil {
		return ports.Credentials{}, false
	}
	return ports.Credentials{AccessToken: admin.AccessToken, OrgID: admin.OrgID}, true
}

// Licenses handles GET /licenses.
func (h *OrgHandler) Licenses(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.creds(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}
	licenses, err := h.webex.ListLicenses(r.Context(), creds)
	if err != nil {
		h.log.Warn().Err(err).Msg("license list failed")
		writeCallErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": licenses})
}

// Locations handles GET /locations.
func (h *OrgHandler) Locations(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.creds(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}
	locations, err := h.webex.ListLocations(r.Context(), creds)
	if err != nil {
		h.log.Warn().Err(err).Msg("location list failed")
		writeCallErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": locations})
}

// Floors handles GET /locations/{locationID}/floors.
func (h *OrgHandler) Floors(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.creds(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}
	locationID := chi.URLParam(r, "locationID")
	if locationID == "" {
		writeErr(w, http.StatusBadRequest, "", "locationID is required")
		return
	}
	floors, err := h.webex.ListFloors(r.Context(), creds, locationID)
	if err != nil {
		h.log.Warn().Err(err).Msg("floor list failed")
		writeCallErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": floors})
}

// MyOrganization handles GET /my-organization.
func (h *OrgHandler) MyOrganization(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.creds(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}
	org, err := h.webex.GetOrganization(r.Context(), creds)
	if err != nil {
		h.log.Warn().Err(err).Msg("organization lookup failed")
		writeCallErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// MyName handles GET /my-name with the display name captured at login.
func (h *OrgHandler) MyName(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromContext(r.Context())
	if admin == nil {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"displayName": admin.DisplayName})
}

// ExportWorkspaces handles POST /export-workspaces. Workspace provisioning
// is not built yet.
func (h *OrgHandler) ExportWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeErr(w, http.StatusNotImplemented, ErrCodeNotImplemented, "Exporting workspaces is not supported yet.")
}
