package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/export"
	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/middleware"
)

// maxUploadBytes bounds the multipart form; a provisioning CSV is tiny.
const maxUploadBytes = 10 << 20

// ExportHandler accepts user export uploads and runs the provisioning
// pipeline.
type ExportHandler struct {
	exportUsers *export.ExportUsers
	log         zerolog.Logger
}

func NewExportHandler(exportUsers *export.ExportUsers, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{exportUsers: exportUsers, log: log}
}

// ExportUsers handles POST /export-users. The HTTP status mirrors the
// aggregate's top-level status so partial success still returns 200 with
// the per-user breakdown in the body.
func (h *ExportHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromContext(r.Context())
	if admin == nil {
		writeErr(w, http.StatusUnauthorized, "", "sign in with Webex first")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "", "expected a multipart form with a 'file' field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "the 'file' field is required")
		return
	}
	defer file.Close()

	creds := ports.Credentials{AccessToken: admin.AccessToken, OrgID: admin.OrgID}
	input := export.ExportUsersInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
	}
	resp, err := h.exportUsers.Execute(r.Context(), creds, input)
	if err != nil {
		h.log.Error().Err(err).Msg("export failed before producing a response")
		writeErr(w, http.StatusInternalServerError, "", "could not process the export")
		return
	}

	for _, ur := range resp.Results {
		middleware.RecordUserCreation(ur.Status == http.StatusCreated)
		for _, lr := range ur.LicenseResults {
			middleware.RecordLicenseAssignment(lr.LicenseName, lr.Status == http.StatusOK)
		}
	}

	writeJSON(w, httpStatus(resp.Status), resp)
}

// httpStatus guards against a non-HTTP status leaking into WriteHeader.
func httpStatus(s int) int {
	if s < 100 || s > 599 {
		return http.StatusInternalServerError
	}
	return s
}
