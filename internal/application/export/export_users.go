package export

import (
	"context"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
	domerrors "github.com/natjungquist/c1-wxautomator-backend/internal/domain/errors"
)

// ExportUsersInput is one uploaded file plus how the caller labeled it.
type ExportUsersInput struct {
	FileName    string
	ContentType string
	File        io.Reader
}

// Config tunes the pipeline without changing its semantics.
type Config struct {
	FailOnErrors  int
	Resolve       ResolveConfig
	AssignWorkers int
}

// ExportUsers runs the whole provisioning pipeline for one upload: parse,
// validate against org reference data, one batched creation call, resolve
// identifiers, assign licenses. It owns the aggregate response; the stages
// never touch it directly except through the processors in this package.
type ExportUsers struct {
	webex    ports.Webex
	validate *validator.Validate
	cfg      Config
	logger   zerolog.Logger
}

// NewExportUsers builds the use case.
func NewExportUsers(webex ports.Webex, cfg Config, logger zerolog.Logger) *ExportUsers {
	if cfg.FailOnErrors <= 0 {
		cfg.FailOnErrors = 10
	}
	if cfg.Resolve == (ResolveConfig{}) {
		cfg.Resolve = DefaultResolveConfig()
	}
	if cfg.AssignWorkers <= 0 {
		cfg.AssignWorkers = DefaultAssignWorkers
	}
	return &ExportUsers{
		webex:    webex,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Execute always returns a response; the error return is reserved for a nil
// reader or other caller bugs. Every pipeline fault is folded into the
// response's status and message so partial progress stays visible.
func (uc *ExportUsers) Execute(ctx context.Context, creds ports.Credentials, input ExportUsersInput) (*domain.ExportUsersResponse, error) {
	if input.File == nil {
		return nil, errors.New("export: nil file reader")
	}

	resp := &domain.ExportUsersResponse{ExportID: uuid.NewString()}
	log := uc.logger.With().Str("export_id", resp.ExportID).Str("org_id", creds.OrgID).Logger()

	if !IsCSVFile(input.FileName, input.ContentType) {
		resp.SetError(400, "The file must be a CSV file.")
		return resp, nil
	}

	rows, err := parseRows(input.File)
	if err != nil {
		log.Warn().Err(err).Msg("csv rejected")
		resp.SetError(400, err.Error())
		return resp, nil
	}
	if len(rows) == 0 {
		resp.SetError(400, "The file contains no user rows.")
		return resp, nil
	}

	licenses, locations, err := uc.fetchReferenceData(ctx, creds)
	if err != nil {
		log.Error().Err(err).Msg("reference data fetch failed")
		status, msg := callFault(err)
		resp.SetError(status, msg)
		return resp, nil
	}

	b, err := buildBatch(rows, licenses, locations, uc.validate)
	if err != nil {
		log.Warn().Err(err).Msg("batch rejected")
		resp.SetError(faultStatus(err), err.Error())
		return resp, nil
	}

	bulk := assembleBulk(b, uc.cfg.FailOnErrors)
	bulkResp, err := uc.webex.SubmitBulk(ctx, creds, &bulk)
	if err != nil {
		log.Error().Err(err).Msg("bulk submission failed")
		status, msg := callFault(err)
		resp.SetError(status, msg)
		return resp, nil
	}

	created, err := processCreationResults(b, bulkResp, resp)
	if err != nil {
		log.Error().Err(err).Msg("creation results unusable")
		resp.SetError(500, err.Error())
		return resp, nil
	}
	if len(created) == 0 {
		resp.SetError(200, "No users were created.")
		return resp, nil
	}

	if err := resolvePersonIDs(ctx, uc.webex, creds, created, uc.cfg.Resolve); err != nil {
		log.Error().Err(err).Msg("user id resolution failed")
		resp.SetError(200, "Error getting any user IDs. No licenses were assigned.")
		return resp, nil
	}

	licenseResults := assignLicenses(ctx, uc.webex, creds, created, uc.cfg.AssignWorkers)
	for i, meta := range created {
		for _, lr := range licenseResults[i] {
			resp.AddLicenseResult(meta.Email(), lr)
		}
	}

	resp.Status = 200
	log.Info().
		Int("attempted", resp.TotalCreateAttempts).
		Int("created", resp.NumSuccessfullyCreated).
		Msg("export finished")
	return resp, nil
}

// fetchReferenceData loads the org's licenses and locations fresh for each
// request; staleness is worse than the extra calls.
func (uc *ExportUsers) fetchReferenceData(ctx context.Context, creds ports.Credentials) (map[string]domain.License, map[string]domain.Location, error) {
	licenses, err := uc.webex.ListLicenses(ctx, creds)
	if err != nil {
		return nil, nil, err
	}
	locations, err := uc.webex.ListLocations(ctx, creds)
	if err != nil {
		return nil, nil, err
	}
	return domain.LicenseMap(licenses), domain.LocationMap(locations), nil
}

// faultStatus maps build faults onto HTTP-shaped statuses: caller-fixable
// input keeps 400, anything pointing at a bug in this service is 500.
func faultStatus(err error) int {
	if errors.Is(err, domerrors.ErrInternalConsistency) {
		return 500
	}
	return 400
}

// callFault extracts the status and detail of a classified provider call
// failure for a batch-level short circuit.
func callFault(err error) (int, string) {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Status, apiErr.Detail
		}
		return apiErr.Status, apiErr.Error()
	}
	return 500, err.Error()
}
