// Package verify is the validation chokepoint for remote API payloads: every
// piece of unstructured JSON must pass through it before anything else
// consumes it.
package verify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Issue is one violated field, addressed by its JSON path.
type Issue struct {
	Path    string
	Message string
}

// Error classifies a validation failure. With a caller-supplied message the
// error is safe to show to the end user; without one the message is the full
// "path: reason" listing, intended for logs only.
type Error struct {
	message    string
	userFacing bool
	Issues     []Issue
}

func (e *Error) Error() string { return e.message }

func (e *Error) UserFacing() bool { return e.userFacing }

// IsUserFacing reports whether err is a validation failure whose message may
// be shown to the end user.
func IsUserFacing(err error) bool {
	var verr *Error
	return errors.As(err, &verr) && verr.UserFacing()
}

// Validate returns a user-facing validation error unless condition holds.
func Validate(condition bool, message string) error {
	if condition {
		return nil
	}
	return &Error{message: message, userFacing: true}
}

// Value checks data against schema and decodes it into T. The returned value
// is deep-equal to the input. When userMessage is given, a failure produces a
// user-facing error carrying exactly that message; otherwise the error embeds
// every violated field as a "path: message" line.
func Value[T any](data any, schema *openapi3.Schema, userMessage ...string) (T, error) {
	var out T
	if err := schema.VisitJSON(data, openapi3.MultiErrors()); err != nil {
		issues := collectIssues(err)
		if len(userMessage) > 0 && userMessage[0] != "" {
			return out, &Error{message: userMessage[0], userFacing: true, Issues: issues}
		}
		lines := make([]string, 0, len(issues))
		for _, issue := range issues {
			lines = append(lines, issue.Path+": "+issue.Message)
		}
		return out, &Error{message: strings.Join(lines, "\n"), Issues: issues}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return out, fmt.Errorf("marshal verified payload: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode verified payload: %w", err)
	}
	return out, nil
}

func collectIssues(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		issues := make([]Issue, 0, len(multi))
		for _, e := range multi {
			issues = append(issues, toIssue(e))
		}
		return issues
	}
	return []Issue{toIssue(err)}
}

func toIssue(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		message := schemaErr.Reason
		if message == "" {
			message = schemaErr.Error()
		}
		return Issue{Path: strings.Join(schemaErr.JSONPointer(), "."), Message: message}
	}
	return Issue{Message: err.Error()}
}
