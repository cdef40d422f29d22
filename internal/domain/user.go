package domain

// SCIM schema markers every creation request must carry, per the Webex
// identity API documentation.
var UserSchemas = []string{
	"urn:ietf:params:scim:schemas:core:2.0:User",
	"urn:scim:schemas:extension:cisco:webexidentity:2.0:User",
	"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User",
}

// Phone number types accepted by the provider.
const (
	PhoneTypeWork          = "work"
	PhoneTypeWorkExtension = "work_extension"
	PhoneTypeHome          = "home"
	PhoneTypeMobile        = "mobile"
)

// Name is the SCIM name object of a user.
type Name struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

// Email is one entry of the SCIM emails array. The provider requires the
// array to contain the userName value with primary:false.
type Email struct {
	Value   string `json:"value"`
	Type    string `json:"type"`
	Display string `json:"display,omitempty"`
	Primary bool   `json:"primary"`
}

// PhoneNumber is one entry of the SCIM phoneNumbers array.
type PhoneNumber struct {
	Value   string `json:"value"`
	Type    string `json:"type"`
	Display string `json:"display,omitempty"`
	Primary bool   `json:"primary"`
}

// UserCreationRequest is the payload the provider expects for creating one
// user. The userName field must be an email whose domain is authorized in
// Control Hub; this service always sets it from the CSV Email column.
type UserCreationRequest struct {
	UserName     string        `json:"userName"`
	Emails       []Email       `json:"emails"`
	DisplayName  string        `json:"displayName,omitempty"`
	Name         Name          `json:"name"`
	UserType     string        `json:"userType"`
	Active       bool          `json:"active"`
	Schemas      []string      `json:"schemas"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers"`
}

// NewUserCreationRequest builds a request with the fixed schema markers and
// the emails array derived from the login email.
func NewUserCreationRequest(email, displayName, givenName, familyName string, active bool) *UserCreationRequest {
	return &UserCreationRequest{
		UserName:     email,
		Emails:       []Email{{Value: email, Type: "work", Display: "Work", Primary: false}},
		DisplayName:  displayName,
		Name:         Name{GivenName: givenName, FamilyName: familyName},
		UserType:     "user",
		Active:       active,
		Schemas:      UserSchemas,
		PhoneNumbers: []PhoneNumber{},
	}
}

// AddPrimaryExtension appends the primary work extension entry. The caller
// must have validated that value is all digits.
func (r *UserCreationRequest) AddPrimaryExtension(value string) {
	r.PhoneNumbers = append(r.PhoneNumbers, PhoneNumber{
		Value:   value,
		Type:    PhoneTypeWorkExtension,
		Display: "Work extension",
		Primary: true,
	})
}

// Extension returns the primary work extension, or "" if the user has none.
func (r *UserCreationRequest) Extension() string {
	for _, n := range r.PhoneNumbers {
		if n.Type == PhoneTypeWorkExtension && n.Primary {
			return n.Value
		}
	}
	return ""
}

// UserMetadata is the side-channel record for one row: everything needed
// after creation that cannot travel inside the SCIM payload. It is keyed by
// email in the batch and carries the correlation id assigned at assembly and
// the durable identifier backfilled after creation.
type UserMetadata struct {
	Request  *UserCreationRequest
	BulkID   string
	PersonID string
	Location *Location
	Licenses []License
}

// Email returns the login email of the underlying request.
func (m *UserMetadata) Email() string {
	if m.Request == nil {
		return ""
	}
	return m.Request.UserName
}

// FirstName returns the given name or "".
func (m *UserMetadata) FirstName() string {
	if m.Request == nil {
		return ""
	}
	return m.Request.Name.GivenName
}

// LastName returns the family name or "".
func (m *UserMetadata) LastName() string {
	if m.Request == nil {
		return ""
	}
	return m.Request.Name.FamilyName
}

// LocationID returns the resolved location id or "".
func (m *UserMetadata) LocationID() string {
	if m.Location == nil {
		return ""
	}
	return m.Location.ID
}

// Extension returns the primary work extension of the request or "".
func (m *UserMetadata) Extension() string {
	if m.Request == nil {
		return ""
	}
	return m.Request.Extension()
}

// AddLicense records a pending license entitlement for this user.
func (m *UserMetadata) AddLicense(l License) {
	m.Licenses = append(m.Licenses, l)
}
