package ports

import (
	"context"

	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
)

// Credentials carry the bearer token and the organization the admin is
// authorized for. Both are opaque strings minted by the auth collaborator.
type Credentials struct {
	AccessToken string
	OrgID       string
}

// BulkRequestSchema is the fixed schema marker of a SCIM bulk envelope.
const BulkRequestSchema = "urn:ietf:params:scim:api:messages:2.0:BulkRequest"

// BulkOperation is one create-user operation inside a bulk envelope.
type BulkOperation struct {
	Method string                      `json:"method"`
	Path   string                      `json:"path"`
	BulkID string                      `json:"bulkId"`
	Data   *domain.UserCreationRequest `json:"data"`
}

// BulkRequest is the batched creation envelope. FailOnErrors is the error
// tolerance threshold after which the provider aborts the batch server-side.
type BulkRequest struct {
	Schemas      []string        `json:"schemas"`
	FailOnErrors int             `json:"failOnErrors"`
	Operations   []BulkOperation `json:"operations"`
}

// BulkOperationResult is the provider's outcome for one operation. Status is
// a numeric code carried as a string, exactly as the provider sends it.
// Response is only present on failures.
type BulkOperationResult struct {
	Status   string             `json:"status"`
	Method   string             `json:"method"`
	BulkID   string             `json:"bulkId"`
	Response *BulkErrorResponse `json:"response,omitempty"`
}

// BulkErrorResponse is the error body nested in a failed bulk operation.
type BulkErrorResponse struct {
	Schemas []string          `json:"schemas,omitempty"`
	Status  string            `json:"status,omitempty"`
	Details *BulkErrorDetails `json:"urn:scim:schemas:extension:cisco:webexidentity:api:messages:2.0:Error,omitempty"`
}

// BulkErrorDetails carries the provider's tracking id and detail text.
type BulkErrorDetails struct {
	TrackingID string `json:"trackingId,omitempty"`
	ErrorCode  string `json:"errorCode,omitempty"`
	Details    string `json:"details,omitempty"`
}

// ErrorDetail returns the provider's detail text or "".
func (r BulkOperationResult) ErrorDetail() string {
	if r.Response == nil || r.Response.Details == nil {
		return ""
	}
	return r.Response.Details.Details
}

// BulkResponse is the provider's reply to a bulk submission.
type BulkResponse struct {
	Schemas    []string              `json:"schemas,omitempty"`
	Operations []BulkOperationResult `json:"operations"`
}

// ScimUser is one resource of a user search page. Only the fields the
// pipeline reads are mapped.
type ScimUser struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	DisplayName string `json:"displayName,omitempty"`
	Active      bool   `json:"active,omitempty"`
}

// UserSearchPage is an organization-scoped user listing.
type UserSearchPage struct {
	TotalResults int        `json:"totalResults"`
	ItemsPerPage int        `json:"itemsPerPage,omitempty"`
	StartIndex   int        `json:"startIndex,omitempty"`
	Resources    []ScimUser `json:"Resources"`
}

// CallingProperties are required only when assigning the calling license
// family; the provider rejects the field on any other license.
type CallingProperties struct {
	LocationID string `json:"locationId"`
	Extension  string `json:"extension"`
}

// LicenseOperation is one license grant (or revoke) inside an assignment.
type LicenseOperation struct {
	Operation  string             `json:"operation"`
	ID         string             `json:"id"`
	Properties *CallingProperties `json:"properties,omitempty"`
}

// LicenseAssignment is the PATCH body for assigning licenses to one person.
type LicenseAssignment struct {
	Email    string             `json:"email"`
	OrgID    string             `json:"orgId"`
	PersonID string             `json:"personId"`
	Licenses []LicenseOperation `json:"licenses"`
}

// Floor is one floor of a location.
type Floor struct {
	ID          string `json:"id"`
	LocationID  string `json:"locationId"`
	FloorNumber int    `json:"floorNumber"`
	DisplayName string `json:"displayName,omitempty"`
}

// OrganizationDetails identify the authorized organization.
type OrganizationDetails struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Person is the authenticated caller's own profile, read with the bearer
// token alone during login.
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// UserDirectory is the SCIM surface: batched creation and the search used to
// resolve durable identifiers. Failed calls return *APIError.
type UserDirectory interface {
	SubmitBulk(ctx context.Context, creds Credentials, req *BulkRequest) (*BulkResponse, error)
	SearchUsers(ctx context.Context, creds Credentials) (*UserSearchPage, error)
}

// Licensing lists the organization's licenses and assigns them one call per
// user per license. Failed calls return *APIError.
type Licensing interface {
	ListLicenses(ctx context.Context, creds Credentials) ([]domain.License, error)
	AssignLicense(ctx context.Context, creds Credentials, req *LicenseAssignment) error
}

// Locations lists the organization's locations and their floors. Failed
// calls return *APIError.
type Locations interface {
	ListLocations(ctx context.Context, creds Credentials) ([]domain.Location, error)
	ListFloors(ctx context.Context, creds Credentials, locationID string) ([]Floor, error)
}

// Organizations reads details of the authorized organization and of the
// caller themselves.
type Organizations interface {
	GetOrganization(ctx context.Context, creds Credentials) (*OrganizationDetails, error)
	GetMe(ctx context.Context, accessToken string) (*Person, error)
}

// Webex bundles the full provider surface for wiring.
type Webex interface {
	UserDirectory
	Licensing
	Locations
	Organizations
}
