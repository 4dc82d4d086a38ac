// Package classify turns failed submission responses into user-facing
// explanations. It is purely presentational: no retries, no memory of prior
// failures.
package classify

import (
	"net/http"
	"strings"
)

// Category of a failed submission.
type Category string

const (
	CategoryConflict       Category = "conflict"
	CategoryInvalidPayload Category = "invalid_payload"
	CategoryServerError    Category = "server_error"
	CategoryUnknown        Category = "unknown"
)

// Body is the parsed error body of a failed request.
type Body struct {
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

// Options configures per-flow behavior. VerbatimDetails makes a 400 surface
// the server's message array joined verbatim instead of the fixed generic
// text; only the edit-volunteer flow enables it. Kept behind explicit
// configuration rather than unified across flows.
type Options struct {
	VerbatimDetails bool
}

// Result is the classification outcome: a category plus display text.
type Result struct {
	Category Category
	Message  string
}

// Fixed user-facing messages.
const (
	msgDuplicateEmail   = "A record with this email address already exists."
	msgDuplicatePhone   = "A record with this phone number already exists."
	msgDuplicateVenture = "An entrepreneurship with this name already exists."
	msgDuplicateGeneric = "A record with this data already exists."
	msgInvalidPayload   = "Please review all fields and try again."
	msgServerError      = "Something went wrong on our side. Please try again later."
	msgUnknown          = "The request could not be completed. Please try again."
)

// conflictProbes are checked in order against the lowercased server message;
// the first match wins. Spanish variants appear because the upstream records
// service reports duplicates in either language.
var conflictProbes = []struct {
	substrings []string
	message    string
}{
	{[]string{"email", "correo"}, msgDuplicateEmail},
	{[]string{"phone", "teléfono", "telefono"}, msgDuplicatePhone},
	{[]string{"entrepreneurship", "emprendimiento"}, msgDuplicateVenture},
}

// Classify maps a failed request's status code and body to a category and a
// display message. Anything that is not 409/400/500 — including transport
// failures reported as status 0 — is unknown.
func Classify(status int, body Body, opts Options) Result {
	switch status {
	case http.StatusConflict:
		return Result{Category: CategoryConflict, Message: conflictMessage(body.Message)}

	case http.StatusBadRequest:
		if opts.VerbatimDetails && len(body.Messages) > 0 {
			return Result{
				Category: CategoryInvalidPayload,
				Message:  strings.Join(body.Messages, ". "),
			}
		}
		return Result{Category: CategoryInvalidPayload, Message: msgInvalidPayload}

	case http.StatusInternalServerError:
		return Result{Category: CategoryServerError, Message: msgServerError}

	default:
		return Result{Category: CategoryUnknown, Message: msgUnknown}
	}
}

func conflictMessage(serverMessage string) string {
	lower := strings.ToLower(serverMessage)
	for _, probe := range conflictProbes {
		for _, sub := range probe.substrings {
			if strings.Contains(lower, sub) {
				return probe.message
			}
		}
	}
	return msgDuplicateGeneric
}

// StatusError is implemented by domain errors that know their HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// DetailedError optionally supplies a message array for VerbatimDetails.
type DetailedError interface {
	Details() []string
}

// FromError classifies a submission error coming from the in-process record
// services, which carry their HTTP status the same way the wire does.
// A nil error classifies as unknown; callers should not pass one.
func FromError(err error, opts Options) Result {
	var status int
	body := Body{}

	if se, ok := err.(StatusError); ok {
		status = se.HTTPStatus()
		body.Message = se.Error()
	} else if err != nil {
		body.Message = err.Error()
	}

	if de, ok := err.(DetailedError); ok {
		body.Messages = de.Details()
	}

	return Classify(status, body, opts)
}
