package domain

// Location is a physical site of an organization, read-only to this service.
type Location struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	OrgID             string   `json:"orgId,omitempty"`
	Address           *Address `json:"address,omitempty"`
	TimeZone          string   `json:"timeZone,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
	Latitude          string   `json:"latitude,omitempty"`
	Longitude         string   `json:"longitude,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// Address is the postal address of a location.
type Address struct {
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// LocationMap keys locations by name for row validation.
func LocationMap(all []Location) map[string]Location {
	m := make(map[string]Location, len(all))
	for _, l := range all {
		m[l.Name] = l
	}
	return m
}
