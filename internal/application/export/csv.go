package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	domerrors "github.com/natjungquist/c1-wxautomator-backend/internal/domain/errors"
)

// Column headings of the upload format. Matching is exact and case
// sensitive; a file missing any required column is rejected before any
// provider call.
const (
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColDisplayName   = "Display Name"
	ColStatus        = "Status"
	ColEmail         = "Email"
	ColExtension     = "Extension"
	ColLocation      = "Location"
	ColPremiumAgent  = "Webex Contact Center Premium Agent"
	ColStandardAgent = "Webex Contact Center Standard Agent"
	ColCallingPro    = "Webex Calling - Professional"
)

// RequiredColumns is the required header set for a user export upload.
// Last Name is read when present but is not required.
var RequiredColumns = []string{
	ColFirstName,
	ColDisplayName,
	ColStatus,
	ColEmail,
	ColExtension,
	ColLocation,
	ColPremiumAgent,
	ColStandardAgent,
	ColCallingPro,
}

// RowRecord is one parsed CSV row. It lives only long enough to be turned
// into a creation request plus metadata.
type RowRecord struct {
	FirstName     string
	LastName      string
	DisplayName   string
	Status        string
	Email         string `validate:"required,email"`
	Extension     string
	Location      string
	PremiumAgent  bool
	StandardAgent bool
	CallingPro    bool
}

// Active reports whether the row's Status marks the user active.
func (r RowRecord) Active() bool {
	return strings.EqualFold(r.Status, "active")
}

// IsCSVFile reports whether an upload looks like CSV, by content type or by
// file extension.
func IsCSVFile(filename, contentType string) bool {
	if contentType == "text/csv" || strings.HasPrefix(contentType, "text/csv;") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

// parseRows reads the whole file. The first line is the header and must
// contain every required column; any malformed row faults the whole batch,
// so a broken file never produces a partial submission.
func parseRows(r io.Reader) ([]RowRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, domerrors.CSVProcessingf("file is empty")
	}
	if err != nil {
		return nil, domerrors.CSVProcessingf("could not read header: %v", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimPrefix(name, "\ufeff")] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, domerrors.CSVProcessingf("file does not contain all the columns required to process the request (missing '%s')", col)
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []RowRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domerrors.CSVProcessingf("row %d is malformed: %v", line, err)
		}
		rows = append(rows, RowRecord{
			FirstName:     field(row, ColFirstName),
			LastName:      field(row, ColLastName),
			DisplayName:   field(row, ColDisplayName),
			Status:        field(row, ColStatus),
			Email:         field(row, ColEmail),
			Extension:     field(row, ColExtension),
			Location:      field(row, ColLocation),
			PremiumAgent:  strings.EqualFold(field(row, ColPremiumAgent), "true"),
			StandardAgent: strings.EqualFold(field(row, ColStandardAgent), "true"),
			CallingPro:    strings.EqualFold(field(row, ColCallingPro), "true"),
		})
	}
	return rows, nil
}
