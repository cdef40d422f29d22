package domain

// Provider-side license names. The CSV column headings differ from the
// provider's own names (note the lowercase c in "Contact center Standard
// Agent" — that is how the Webex API spells it).
const (
	LicenseContactCenterPremium  = "Contact Center Premium Agent"
	LicenseContactCenterStandard = "Contact center Standard Agent"
	LicenseCallingProfessional   = "Webex Calling - Professional"
)

// License is a license owned by an organization, read-only to this service.
type License struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	TotalUnits           int    `json:"totalUnits"`
	ConsumedUnits        int    `json:"consumedUnits"`
	ConsumedByUsers      int    `json:"consumedByUsers"`
	ConsumedByWorkspaces int    `json:"consumedByWorkspaces"`
	SubscriptionID       string `json:"subscriptionId,omitempty"`
	SiteURL              string `json:"siteUrl,omitempty"`
	SiteType             string `json:"siteType,omitempty"`
}

// RequiresCallingProperties reports whether assigning this license needs a
// location id and a phone extension in the request body. Only the calling
// license family carries the properties object.
func (l License) RequiresCallingProperties() bool {
	return l.Name == LicenseCallingProfessional
}

// LicenseMap keys licenses by their provider name for row validation.
func LicenseMap(all []License) map[string]License {
	m := make(map[string]License, len(all))
	for _, l := range all {
		m[l.Name] = l
	}
	return m
}
