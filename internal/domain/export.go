package domain

// AssignLicenseResult is the outcome of one license assignment attempt for
// one user.
type AssignLicenseResult struct {
	LicenseName string `json:"licenseName"`
	Status      int    `json:"status"`
	Message     string `json:"message"`
}

// CreateUserResult is the outcome for one submitted row, with the outcomes
// of every license assignment attempted for that user.
type CreateUserResult struct {
	Status         int                   `json:"status"`
	Message        string                `json:"message"`
	Email          string                `json:"email"`
	FirstName      string                `json:"firstName"`
	LastName       string                `json:"lastName"`
	LicenseResults []AssignLicenseResult `json:"licenseResults"`
}

// ExportUsersResponse is the aggregate returned to the caller. It is built
// incrementally by the export orchestrator only and distinguishes total
// attempted from total succeeded so partial success stays visible.
type ExportUsersResponse struct {
	Status                 int                `json:"status"`
	ExportID               string             `json:"exportId,omitempty"`
	TotalCreateAttempts    int                `json:"totalCreateAttempts"`
	NumSuccessfullyCreated int                `json:"numSuccessfullyCreated"`
	Message                string             `json:"message"`
	Results                []CreateUserResult `json:"results"`
}

// SetError stamps a top-level status and message without touching per-user
// results. Used for batch-level short circuits.
func (r *ExportUsersResponse) SetError(status int, message string) {
	r.Status = status
	r.Message = message
}

// AddSuccess records a created user.
func (r *ExportUsersResponse) AddSuccess(status int, email, firstName, lastName string) {
	r.Results = append(r.Results, CreateUserResult{
		Status:         status,
		Message:        "Created.",
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		LicenseResults: []AssignLicenseResult{},
	})
	r.NumSuccessfullyCreated++
	r.TotalCreateAttempts++
}

// AddFailure records a row the provider did not create.
func (r *ExportUsersResponse) AddFailure(status int, email, firstName, lastName, message string) {
	r.Results = append(r.Results, CreateUserResult{
		Status:         status,
		Message:        message,
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		LicenseResults: []AssignLicenseResult{},
	})
	r.TotalCreateAttempts++
}

// AddLicenseResult attaches a license outcome to the result for email.
// Unknown emails are ignored; the orchestrator only reports licenses for
// users it already recorded.
func (r *ExportUsersResponse) AddLicenseResult(email string, lr AssignLicenseResult) {
	for i := range r.Results {
		if r.Results[i].Email == email {
			r.Results[i].LicenseResults = append(r.Results[i].LicenseResults, lr)
			return
		}
	}
}
