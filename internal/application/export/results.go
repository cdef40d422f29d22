package export

import (
	"fmt"
	"strconv"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
	"github.com/natjungquist/c1-wxautomator-backend/internal/domain"
	domerrors "github.com/natjungquist/c1-wxautomator-backend/internal/domain/errors"
)

// errNoOperations marks a provider reply that acknowledged the batch but
// carried no per-operation results. The batch outcome is unknowable, so the
// whole export fails rather than guess.
var errNoOperations = domerrors.InternalConsistencyf("provider returned no operation results for the batch")

// processCreationResults walks the bulk reply and records one result per
// user on the response. It returns the metadata of users that were actually
// created (or already existed), which feed the licensing stage.
func processCreationResults(b *batch, bulk *ports.BulkResponse, resp *domain.ExportUsersResponse) ([]*domain.UserMetadata, error) {
	if bulk == nil || len(bulk.Operations) == 0 {
		return nil, errNoOperations
	}

	var created []*domain.UserMetadata
	for _, op := range bulk.Operations {
		email, ok := b.emailByBulkID[op.BulkID]
		if !ok {
			return nil, domerrors.InternalConsistencyf("provider returned unknown correlation id %q", op.BulkID)
		}
		meta := b.meta[email]
		if meta == nil {
			return nil, domerrors.InternalConsistencyf("no metadata recorded for %s", email)
		}

		switch op.Status {
		case "201":
			resp.AddSuccess(201, meta.Email(), meta.FirstName(), meta.LastName())
			created = append(created, meta)
		case "200":
			resp.AddFailure(200, meta.Email(), meta.FirstName(), meta.LastName(),
				"Webex API returned 200 instead of 201 and did not create this user.")
		case "409":
			resp.AddFailure(409, meta.Email(), meta.FirstName(), meta.LastName(),
				conflictMessage(op))
		default:
			resp.AddFailure(statusInt(op.Status), meta.Email(), meta.FirstName(), meta.LastName(),
				failureMessage(op))
		}
	}
	return created, nil
}

// conflictMessage surfaces the provider's detail for a conflicting email,
// falling back to a fixed line when the detail block is absent.
func conflictMessage(op ports.BulkOperationResult) string {
	if detail := op.ErrorDetail(); detail != "" {
		return fmt.Sprintf("Webex API responded with '%s' because a user with this email already exists.", detail)
	}
	return "A user with this email already exists."
}

// failureMessage prefers the provider's nested detail text over a generic
// line.
func failureMessage(op ports.BulkOperationResult) string {
	if detail := op.ErrorDetail(); detail != "" {
		return detail
	}
	return fmt.Sprintf("Failed to create user (status %s).", op.Status)
}

// statusInt parses the provider's string status code, falling back to 500
// when the provider sends something unparseable.
func statusInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 100 || n > 599 {
		return 500
	}
	return n
}
