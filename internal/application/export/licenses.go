package export

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
)

// DefaultAssignWorkers caps how many users have licenses assigned at once.
const DefaultAssignWorkers = 4

// assignLicenses grants every pending license of every created user. Users
// run concurrently up to workers; licenses within one user run sequentially
// in file order. Each (user, license) pair gets its own recorded outcome and
// no failure cancels a sibling, so the slice layout is fixed up front and
// each goroutine writes only its own row.
func assignLicenses(ctx context.Context, lic ports.Licensing, creds ports.Credentials, created []*domain.UserMetadata, workers int) [][]domain.AssignLicenseResult {
	if workers <= 0 {
		workers = DefaultAssignWorkers
	}
	out := make([][]domain.AssignLicenseResult, len(created))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, meta := range created {
		g.Go(func() error {
			out[i] = assignUserLicenses(ctx, lic, creds, meta)
			return nil
		})
	}
	// Goroutines never return errors; Wait only fences the writes.
	_ = g.Wait()
	return out
}

func assignUserLicenses(ctx context.Context, lic ports.Licensing, creds ports.Credentials, meta *domain.UserMetadata) []domain.AssignLicenseResult {
	results := make([]domain.AssignLicenseResult, 0, len(meta.Licenses))
	for _, l := range meta.Licenses {
		results = append(results, assignOne(ctx, lic, creds, meta, l))
	}
	return results
}

// assignOne issues a single assignment call, or records a local failure when
// the user never became resolvable or the license family is missing its
// prerequisites.
func assignOne(ctx context.Context, lic ports.Licensing, creds ports.Credentials, meta *domain.UserMetadata, l domain.License) domain.AssignLicenseResult {
	if meta.PersonID == "" {
		return domain.AssignLicenseResult{
			LicenseName: l.Name,
			Status:      409,
			Message:     "Failed to assign license: user identifier not yet visible; license skipped.",
		}
	}

	op := ports.LicenseOperation{Operation: "add", ID: l.ID}
	if l.RequiresCallingProperties() {
		locationID, extension := meta.LocationID(), meta.Extension()
		if locationID == "" || extension == "" {
			return domain.AssignLicenseResult{
				LicenseName: l.Name,
				Status:      400,
				Message:     "Failed to assign license: a location and extension are required but missing.",
			}
		}
		op.Properties = &ports.CallingProperties{LocationID: locationID, Extension: extension}
	}

	req := &ports.LicenseAssignment{
		Email:    meta.Email(),
		OrgID:    creds.OrgID,
		PersonID: meta.PersonID,
		Licenses: []ports.LicenseOperation{op},
	}
	if err := lic.AssignLicense(ctx, creds, req); err != nil {
		return domain.AssignLicenseResult{
			LicenseName: l.Name,
			Status:      assignStatus(err),
			Message:     fmt.Sprintf("Failed to assign license: %s", assignDetail(err)),
		}
	}
	return domain.AssignLicenseResult{LicenseName: l.Name, Status: 200, Message: "Assigned."}
}

func assignStatus(err error) int {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 500
}

func assignDetail(err error) string {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
