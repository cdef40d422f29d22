package export

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
)

const csvHeader = "First Name,Last Name,Display Name,Status,Email,Extension,Location,Webex Contact Center Premium Agent,Webex Contact Center Standard Agent,Webex Calling - Professional"

var testCreds = ports.Credentials{AccessToken: "token", OrgID: "org-1"}

// fakeWebex is a scriptable ports.Webex for pipeline tests.
type fakeWebex struct {
	mu sync.Mutex

	licenses  []domain.License
	locations []domain.Location

	submitFn func(req *ports.BulkRequest) (*ports.BulkResponse, error)
	searchFn func(call int) (*ports.UserSearchPage, error)
	assignFn func(req *ports.LicenseAssignment) error

	submitted   []*ports.BulkRequest
	searchCalls int
	assigned    []ports.LicenseAssignment
}

func (f *fakeWebex) ListLicenses(ctx context.Context, creds ports.Credentials) ([]domain.License, error) {
	return f.licenses, nil
}

func (f *fakeWebex) ListLocations(ctx context.Context, creds ports.Credentials) ([]domain.Location, error) {
	return f.locations, nil
}

func (f *fakeWebex) ListFloors(ctx context.Context, creds ports.Credentials, locationID string) ([]ports.Floor, error) {
	return nil, nil
}

func (f *fakeWebex) SubmitBulk(ctx context.Context, creds ports.Credentials, req *ports.BulkRequest) (*ports.BulkResponse, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, req)
	f.mu.Unlock()
	return f.submitFn(req)
}

func (f *fakeWebex) SearchUsers(ctx context.Context, creds ports.Credentials) (*ports.UserSearchPage, error) {
	f.mu.Lock()
	f.searchCalls++
	call := f.searchCalls
	f.mu.Unlock()
	return f.searchFn(call)
}

func (f *fakeWebex) AssignLicense(ctx context.Context, creds ports.Credentials, req *ports.LicenseAssignment) error {
	f.mu.Lock()
	f.assigned = append(f.assigned, *req)
	f.mu.Unlock()
	if f.assignFn != nil {
		return f.assignFn(req)
	}
	return nil
}

func (f *fakeWebex) GetOrganization(ctx context.Context, creds ports.Credentials) (*ports.OrganizationDetails, error) {
	return &ports.OrganizationDetails{ID: creds.OrgID, DisplayName: "Test Org"}, nil
}

func (f *fakeWebex) GetMe(ctx context.Context, accessToken string) (*ports.Person, error) {
	return &ports.Person{ID: "me", DisplayName: "Test Admin"}, nil
}

func orgLicenses() []domain.License {
	return []domain.License{
		{ID: "lic-prem", Name: domain.LicenseContactCenterPremium},
		{ID: "lic-std", Name: domain.LicenseContactCenterStandard},
		{ID: "lic-call", Name: domain.LicenseCallingProfessional},
	}
}

func orgLocations() []domain.Location {
	return []domain.Location{{ID: "loc-1", Name: "HQ"}}
}

func allCreated201(req *ports.BulkRequest) (*ports.BulkResponse, error) {
	ops := make([]ports.BulkOperationResult, 0, len(req.Operations))
	for _, op := range req.Operations {
		ops = append(ops, ports.BulkOperationResult{Status: "201", Method: "POST", BulkID: op.BulkID})
	}
	return &ports.BulkResponse{Operations: ops}, nil
}

func searchAll(emails map[string]string) func(int) (*ports.UserSearchPage, error) {
	return func(int) (*ports.UserSearchPage, error) {
		page := &ports.UserSearchPage{}
		for email, id := range emails {
			page.Resources = append(page.Resources, ports.ScimUser{ID: id, UserName: email})
		}
		page.TotalResults = len(page.Resources)
		return page, nil
	}
}

func fastResolve() ResolveConfig {
	return ResolveConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsed:      50 * time.Millisecond,
	}
}

func newTestUC(f *fakeWebex) *ExportUsers {
	return NewExportUsers(f, Config{Resolve: fastResolve()}, zerolog.Nop())
}

func runExport(t *testing.T, uc *ExportUsers, csv string) *domain.ExportUsersResponse {
	t.Helper()
	resp, err := uc.Execute(context.Background(), testCreds, ExportUsersInput{
		FileName:    "users.csv",
		ContentType: "text/csv",
		File:        strings.NewReader(csv),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestExportUsersRejectsNonCSVUpload(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	resp, err := uc.Execute(context.Background(), testCreds, ExportUsersInput{
		FileName:    "users.xlsx",
		ContentType: "application/vnd.ms-excel",
		File:        strings.NewReader("not a csv"),
	})
	require.NoError(t, err)
	assert.Equal(t, 400, resp.Status)
	assert.Zero(t, resp.TotalCreateAttempts)
	assert.Empty(t, f.submitted)
}

func TestExportUsersMissingColumnFailsBeforeAnyCall(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	csv := "First Name,Display Name,Status\nAda,Ada L,active\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, "Email")
	assert.Zero(t, resp.TotalCreateAttempts)
	assert.Empty(t, f.submitted)
	assert.Zero(t, f.searchCalls)
}

func TestExportUsersNonNumericExtensionFaultsBatch(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,ada@example.com,12a4,HQ,FALSE,FALSE,TRUE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, "extension")
	assert.Empty(t, f.submitted)
}

func TestExportUsersDuplicateEmailFaultsBatch(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	csv := csvHeader +
		"\nAda,Lovelace,Ada Lovelace,active,ada@example.com,,,FALSE,FALSE,FALSE" +
		"\nAda,Again,Ada Again,active,ada@example.com,,,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, "ada@example.com")
	assert.Empty(t, f.submitted)
}

func TestExportUsersUnknownLocationFaultsBatch(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,ada@example.com,,Atlantis,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, "Atlantis")
	assert.Empty(t, f.submitted)
}

func TestExportUsersUnknownLicenseFaultsBatch(t *testing.T) {
	f := &fakeWebex{licenses: nil, locations: orgLocations()}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,ada@example.com,,,TRUE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, domain.LicenseContactCenterPremium)
	assert.Empty(t, f.submitted)
}

func TestExportUsersCallingLicenseNeedsLocationAndExtension(t *testing.T) {
	f := &fakeWebex{licenses: orgLicenses(), locations: orgLocations()}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,ada@example.com,,,FALSE,FALSE,TRUE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 400, resp.Status)
	assert.Contains(t, resp.Message, "location or extension")
	assert.Empty(t, f.submitted)
}

func TestExportUsersRoundTripSingleRow(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn:  searchAll(map[string]string{"a@example.com": "id-1"}),
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, resp.TotalCreateAttempts)
	assert.Equal(t, 1, resp.NumSuccessfullyCreated)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 201, resp.Results[0].Status)
	assert.Equal(t, "Created.", resp.Results[0].Message)
	assert.Equal(t, "a@example.com", resp.Results[0].Email)
	assert.Empty(t, resp.Results[0].LicenseResults)

	require.Len(t, f.submitted, 1)
	req := f.submitted[0]
	assert.Equal(t, []string{ports.BulkRequestSchema}, req.Schemas)
	assert.Equal(t, 10, req.FailOnErrors)
	require.Len(t, req.Operations, 1)
	assert.Equal(t, "user-1", req.Operations[0].BulkID)
	assert.Equal(t, "POST", req.Operations[0].Method)
	assert.Equal(t, "/Users", req.Operations[0].Path)
	assert.True(t, req.Operations[0].Data.Active)
	assert.Empty(t, req.Operations[0].Data.PhoneNumbers)
	assert.Empty(t, f.assigned)
}

func TestExportUsersExtensionCarriedWithoutCallingLicense(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn:  searchAll(map[string]string{"a@example.com": "id-1"}),
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,1234,HQ,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)

	assert.Equal(t, 200, resp.Status)
	require.Len(t, f.submitted, 1)
	data := f.submitted[0].Operations[0].Data
	require.Len(t, data.PhoneNumbers, 1)
	assert.Equal(t, domain.PhoneTypeWorkExtension, data.PhoneNumbers[0].Type)
	assert.Equal(t, "1234", data.PhoneNumbers[0].Value)
	assert.True(t, data.PhoneNumbers[0].Primary)
	assert.Empty(t, f.assigned)
}

func TestExportUsersZeroOperationsIsFatal(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn: func(req *ports.BulkRequest) (*ports.BulkResponse, error) {
			return &ports.BulkResponse{}, nil
		},
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 500, resp.Status)
	assert.Contains(t, resp.Message, "no operation results")
	assert.Zero(t, f.searchCalls)
}

func TestExportUsersSubmissionFailureShortCircuits(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn: func(req *ports.BulkRequest) (*ports.BulkResponse, error) {
			return nil, &ports.APIError{Kind: ports.KindProviderFault, Status: 502, Detail: "bad gateway"}
		},
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)
	assert.Equal(t, 502, resp.Status)
	assert.Equal(t, "bad gateway", resp.Message)
	assert.Zero(t, resp.TotalCreateAttempts)
	assert.Zero(t, f.searchCalls)
}

func TestExportUsersConflictAndNoOpAreFailures(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn: func(req *ports.BulkRequest) (*ports.BulkResponse, error) {
			return &ports.BulkResponse{Operations: []ports.BulkOperationResult{
				{Status: "200", Method: "POST", BulkID: "user-1"},
				{Status: "409", Method: "POST", BulkID: "user-2", Response: &ports.BulkErrorResponse{
					Details: &ports.BulkErrorDetails{Details: "user already exists in the system"},
				}},
			}}, nil
		},
	}
	uc := newTestUC(f)
	csv := csvHeader +
		"\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,FALSE,FALSE,FALSE" +
		"\nGrace,Hopper,Grace Hopper,active,b@example.com,,,FALSE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "No users were created.", resp.Message)
	assert.Equal(t, 2, resp.TotalCreateAttempts)
	assert.Zero(t, resp.NumSuccessfullyCreated)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 200, resp.Results[0].Status)
	assert.Contains(t, resp.Results[0].Message, "200 instead of 201")
	assert.Equal(t, 409, resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Message, "user already exists in the system")
	assert.Zero(t, f.searchCalls)
	assert.Empty(t, f.assigned)
}

func TestExportUsersSearchFailureAbortsLicensing(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn: func(int) (*ports.UserSearchPage, error) {
			return nil, &ports.APIError{Kind: ports.KindProviderFault, Status: 500, Detail: "search broke"}
		},
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,TRUE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "Error getting any user IDs. No licenses were assigned.", resp.Message)
	assert.Equal(t, 1, resp.NumSuccessfullyCreated)
	require.Len(t, resp.Results, 1)
	assert.Empty(t, resp.Results[0].LicenseResults)
	assert.Empty(t, f.assigned)
}

func TestExportUsersUnresolvedUserSkipsItsLicenses(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn: func(int) (*ports.UserSearchPage, error) {
			return &ports.UserSearchPage{}, nil
		},
	}
	uc := NewExportUsers(f, Config{Resolve: ResolveConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		MaxElapsed:      5 * time.Millisecond,
	}}, zerolog.Nop())
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,TRUE,FALSE,FALSE\n"
	resp := runExport(t, uc, csv)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, 1, resp.NumSuccessfullyCreated)
	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].LicenseResults, 1)
	lr := resp.Results[0].LicenseResults[0]
	assert.Equal(t, domain.LicenseContactCenterPremium, lr.LicenseName)
	assert.NotEqual(t, 200, lr.Status)
	assert.Contains(t, lr.Message, "skipped")
	assert.Empty(t, f.assigned)
	assert.GreaterOrEqual(t, f.searchCalls, 1)
}

func TestExportUsersLicenseOutcomesAreIndependent(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn:  searchAll(map[string]string{"a@example.com": "id-1"}),
	}
	f.assignFn = func(req *ports.LicenseAssignment) error {
		require.Len(t, req.Licenses, 1)
		if req.Licenses[0].ID == "lic-prem" {
			return &ports.APIError{Kind: ports.KindClientRejected, Status: 409, Detail: "license conflict"}
		}
		return nil
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,,,TRUE,TRUE,FALSE\n"
	resp := runExport(t, uc, csv)

	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].LicenseResults, 2)
	first := resp.Results[0].LicenseResults[0]
	second := resp.Results[0].LicenseResults[1]
	assert.Equal(t, domain.LicenseContactCenterPremium, first.LicenseName)
	assert.Equal(t, 409, first.Status)
	assert.Contains(t, first.Message, "license conflict")
	assert.Equal(t, domain.LicenseContactCenterStandard, second.LicenseName)
	assert.Equal(t, 200, second.Status)
	assert.Equal(t, "Assigned.", second.Message)
	assert.Equal(t, 201, resp.Results[0].Status)
	assert.Len(t, f.assigned, 2)
}

func TestExportUsersCallingLicenseCarriesProperties(t *testing.T) {
	f := &fakeWebex{
		licenses:  orgLicenses(),
		locations: orgLocations(),
		submitFn:  allCreated201,
		searchFn:  searchAll(map[string]string{"a@example.com": "id-1"}),
	}
	uc := newTestUC(f)
	csv := csvHeader + "\nAda,Lovelace,Ada Lovelace,active,a@example.com,1234,HQ,FALSE,FALSE,TRUE\n"
	resp := runExport(t, uc, csv)

	require.Len(t, resp.Results, 1)
	require.Len(t, resp.Results[0].LicenseResults, 1)
	assert.Equal(t, "Assigned.", resp.Results[0].LicenseResults[0].Message)

	require.Len(t, f.assigned, 1)
	a := f.assigned[0]
	assert.Equal(t, "a@example.com", a.Email)
	assert.Equal(t, "org-1", a.OrgID)
	assert.Equal(t, "id-1", a.PersonID)
	require.Len(t, a.Licenses, 1)
	assert.Equal(t, "add", a.Licenses[0].Operation)
	assert.Equal(t, "lic-call", a.Licenses[0].ID)
	require.NotNil(t, a.Licenses[0].Properties)
	assert.Equal(t, "loc-1", a.Licenses[0].Properties.LocationID)
	assert.Equal(t, "1234", a.Licenses[0].Properties.Extension)

	require.Len(t, f.submitted, 1)
	data := f.submitted[0].Operations[0].Data
	require.Len(t, data.PhoneNumbers, 1)
	assert.Equal(t, domain.PhoneTypeWorkExtension, data.PhoneNumbers[0].Type)
	assert.True(t, data.PhoneNumbers[0].Primary)
}
