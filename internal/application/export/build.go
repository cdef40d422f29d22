package export

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
	domerrors "github.com/natjungquist/c1-wxautomator-backend/internal/domain/errors"
)

// batch holds everything derived from a parsed file: the creation requests
// in file order, per-user metadata keyed by email, and the correlation id
// index used to map bulk results back to users.
type batch struct {
	requests      []*domain.UserCreationRequest
	meta          map[string]*domain.UserMetadata
	emailByBulkID map[string]string
}

// buildBatch validates every row against the organization's licenses and
// locations and produces the batch. Any bad row faults the whole upload so
// the caller never submits a partial file.
func buildBatch(rows []RowRecord, licenses map[string]domain.License, locations map[string]domain.Location, validate *validator.Validate) (*batch, error) {
	b := &batch{
		meta:          make(map[string]*domain.UserMetadata, len(rows)),
		emailByBulkID: make(map[string]string, len(rows)),
	}

	for i, row := range rows {
		line := i + 2
		if err := validate.Struct(row); err != nil {
			return nil, domerrors.CSVProcessingf("row %d does not have a valid email", line)
		}
		if _, dup := b.meta[row.Email]; dup {
			return nil, domerrors.CSVProcessingf("row %d repeats email %s; each user may appear only once", line, row.Email)
		}
		if row.Extension != "" && !isDigits(row.Extension) {
			return nil, domerrors.CSVProcessingf("row %d has a non-numeric extension '%s'", line, row.Extension)
		}

		req := domain.NewUserCreationRequest(row.Email, row.DisplayName, row.FirstName, row.LastName, row.Active())
		if row.Extension != "" {
			req.AddPrimaryExtension(row.Extension)
		}
		meta := &domain.UserMetadata{Request: req}

		if err := applyLicenses(row, meta, licenses); err != nil {
			return nil, err
		}
		if err := applyLocation(row, meta, locations); err != nil {
			return nil, err
		}

		b.requests = append(b.requests, req)
		b.meta[row.Email] = meta
	}

	if len(b.meta) != len(b.requests) {
		return nil, domerrors.InternalConsistencyf("metadata for %d users but %d creation requests", len(b.meta), len(b.requests))
	}
	return b, nil
}

func applyLicenses(row RowRecord, meta *domain.UserMetadata, licenses map[string]domain.License) error {
	want := map[string]bool{
		domain.LicenseContactCenterPremium:  row.PremiumAgent,
		domain.LicenseContactCenterStandard: row.StandardAgent,
		domain.LicenseCallingProfessional:   row.CallingPro,
	}
	for _, name := range []string{
		domain.LicenseContactCenterPremium,
		domain.LicenseContactCenterStandard,
		domain.LicenseCallingProfessional,
	} {
		if !want[name] {
			continue
		}
		lic, ok := licenses[name]
		if !ok {
			return domerrors.LicenseNotAvailablef(name)
		}
		if lic.RequiresCallingProperties() && (row.Location == "" || row.Extension == "") {
			return domerrors.CSVProcessingf("user %s requests %s but is missing a location or extension", row.Email, name)
		}
		meta.AddLicense(lic)
	}
	return nil
}

func applyLocation(row RowRecord, meta *domain.UserMetadata, locations map[string]domain.Location) error {
	if row.Location == "" {
		return nil
	}
	loc, ok := locations[row.Location]
	if !ok {
		return domerrors.LocationNotAvailablef(row.Location)
	}
	meta.Location = &loc
	return nil
}

// assembleBulk wraps the batch in a single SCIM bulk request. Correlation
// ids are positional, "user-1" for the first row, and are recorded on the
// metadata so results can be mapped back.
func assembleBulk(b *batch, failOnErrors int) ports.BulkRequest {
	ops := make([]ports.BulkOperation, 0, len(b.requests))
	for i, req := range b.requests {
		bulkID := fmt.Sprintf("user-%d", i+1)
		meta := b.meta[req.UserName]
		meta.BulkID = bulkID
		b.emailByBulkID[bulkID] = req.UserName
		ops = append(ops, ports.BulkOperation{
			Method: "POST",
			Path:   "/Users",
			BulkID: bulkID,
			Data:   req,
		})
	}
	return ports.BulkRequest{
		Schemas:      []string{ports.BulkRequestSchema},
		FailOnErrors: failOnErrors,
		Operations:   ops,
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
