// Package errs defines the error kinds shared across zbxctl. Callers
// branch on kinds, never on message text: the credential resolver uses
// them to tell "try the next source" from "abort", and the CLI maps
// them to exit codes.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags an Error with its place in the taxonomy.
type Kind string

const (
	// KindConfig marks invalid or missing configuration.
	KindConfig Kind = "config"

	// KindRequest is a generic server-reported or transport-level API
	// failure. The three kinds below are its refinements.
	KindRequest        Kind = "api_request"
	KindNotAuthorized  Kind = "api_not_authorized"
	KindSessionExpired Kind = "api_session_expired"
	KindTokenExpired   Kind = "api_token_expired"

	// KindResponseParsing marks a response body that is not valid JSON-RPC.
	KindResponseParsing Kind = "api_response_parsing"

	KindLogin  Kind = "api_login"
	KindLogout Kind = "api_logout"

	// KindCall marks the failure of a typed high-level operation: bad
	// arguments, an unexpected result shape, a missing id list.
	KindCall Kind = "api_call"

	// KindNotFound is returned by getters that promised exactly one object.
	KindNotFound Kind = "not_found"

	KindSessionFile            Kind = "session_file"
	KindSessionFileNotFound    Kind = "session_file_not_found"
	KindSessionFilePermissions Kind = "session_file_permissions"
)

// APIError is the error member of a Zabbix JSON-RPC response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	return e.Message + ": " + e.Data
}

// Error is the error value used throughout zbxctl. API-originating errors
// additionally carry the parsed error body and the HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// API is the parsed JSON-RPC error body, when there was one.
	API *APIError
	// HTTPStatus is the response status code, when a response was received.
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// FromAPI creates an Error carrying a parsed JSON-RPC error body.
func FromAPI(kind Kind, message string, api *APIError, httpStatus int) *Error {
	return &Error{Kind: kind, Message: message, API: api, HTTPStatus: httpStatus}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func hasKind(err error, kinds ...Kind) bool {
	k := KindOf(err)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return hasKind(err, KindConfig) }

// IsRequest reports whether err is a server-reported API request error,
// including the expired/not-authorized refinements.
func IsRequest(err error) bool {
	return hasKind(err, KindRequest, KindNotAuthorized, KindSessionExpired, KindTokenExpired)
}

// IsNotAuthorized reports whether the server rejected the credentials.
func IsNotAuthorized(err error) bool { return hasKind(err, KindNotAuthorized) }

// IsSessionExpired reports whether the session id is no longer valid.
func IsSessionExpired(err error) bool { return hasKind(err, KindSessionExpired) }

// IsTokenExpired reports whether the API token has expired.
func IsTokenExpired(err error) bool { return hasKind(err, KindTokenExpired) }

// IsResponseParsing reports whether a response body could not be decoded.
func IsResponseParsing(err error) bool { return hasKind(err, KindResponseParsing) }

// IsLogin reports whether the login handshake itself failed.
func IsLogin(err error) bool { return hasKind(err, KindLogin) }

// IsNotFound reports whether a getter found no matching object.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsCall reports whether a typed operation failed at its own boundary.
func IsCall(err error) bool { return hasKind(err, KindCall) }

// IsSessionFile reports whether err relates to the session or auth file,
// including the not-found and permissions refinements.
func IsSessionFile(err error) bool {
	return hasKind(err, KindSessionFile, KindSessionFileNotFound, KindSessionFilePermissions)
}

// IsSessionFileNotFound reports whether the session or auth file is absent.
func IsSessionFileNotFound(err error) bool { return hasKind(err, KindSessionFileNotFound) }

// IsSessionFilePermissions reports whether the session or auth file mode
// is too permissive.
func IsSessionFilePermissions(err error) bool { return hasKind(err, KindSessionFilePermissions) }

// IsAuthFailure reports whether err means the credential was rejected,
// as opposed to a network or server fault. The credential resolver moves
// to the next source on these and aborts on everything else.
func IsAuthFailure(err error) bool {
	return hasKind(err, KindNotAuthorized, KindSessionExpired, KindTokenExpired, KindLogin)
}
