package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures talking to Lunch Money.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindNetwork        Kind = "network"
	KindHTTP           Kind = "http"
	KindParse          Kind = "parse"
)

// Error is the typed error returned by the client and the schema decoders.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	// Details holds validation issues for parse errors or the response body for http errors.
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Issues returns the validation issues carried by a parse error.
func (e *Error) Issues() []Issue {
	issues, _ := e.Details.([]Issue)
	return issues
}

// NewAuthenticationError builds the error for a rejected credential.
func NewAuthenticationError(status int, details any) *Error {
	return &Error{Kind: KindAuthentication, Message: "Authentication failed", Status: status, Details: details}
}

// NewHTTPError builds the error for any other non-2xx response.
func NewHTTPError(status int, details any) *Error {
	return &Error{Kind: KindHTTP, Message: fmt.Sprintf("HTTP error %d", status), Status: status, Details: details}
}

// NewParseError builds the error for payloads that are not the expected shape.
func NewParseError(message string, details any) *Error {
	return &Error{Kind: KindParse, Message: message, Details: details}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "", false
	}

	return apiErr.Kind, true
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Descriptor is the user facing copy for an error.
type Descriptor struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Describe turns err into a title and description suitable for display.
func Describe(err error) Descriptor {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return Descriptor{
			Title:       "Connection failed",
			Description: "Something went wrong while connecting your key. Please try again.",
		}
	}

	if apiErr.Kind == KindAuthentication ||
		apiErr.Status == http.StatusUnauthorized ||
		apiErr.Status == http.StatusForbidden {
		return Descriptor{
			Title: "Authentication failed",
			Description: "Authentication error: The API key appears to be invalid. " +
				"Double-check the value in Lunch Money and try again.",
		}
	}

	switch apiErr.Kind {
	case KindNetwork:
		return Descriptor{
			Title:       "Connectivity issue",
			Description: "We were unable to reach Lunch Money. Check your internet connection and try again shortly.",
		}
	case KindParse:
		return Descriptor{
			Title: "Unexpected response",
			Description: "Lunch Money returned data in an unexpected format. " +
				"Try again later or contact support if it continues.",
		}
	case KindHTTP:
		status := "unknown"
		if apiErr.Status != 0 {
			status = fmt.Sprint(apiErr.Status)
		}
		return Descriptor{
			Title: "Lunch Money returned an error",
			Description: fmt.Sprintf("The API responded with status %s. "+
				"Please retry or review the Lunch Money status page.", status),
		}
	}

	return Descriptor{
		Title:       "Connection failed",
		Description: "Something went wrong while connecting your key. Please try again.",
	}
}
