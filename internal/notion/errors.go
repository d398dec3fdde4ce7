package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"
)

// ErrDuplicateTitle is returned when the parent page already has a child page
// with the requested title.
var ErrDuplicateTitle = errors.New("page title already exists")

// Cause classifies a failed Notion API call.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseUnauthorized
	CauseNotFound
	CauseRestricted
	CauseRateLimited
	CauseInvalidRequest
)

const rateLimitedCode = "rate_limited"

// causeByCode maps Notion error codes to causes.
var causeByCode = map[string]Cause{
	"unauthorized":        CauseUnauthorized,
	"invalid_api_key":     CauseUnauthorized,
	"object_not_found":    CauseNotFound,
	"restricted_resource": CauseRestricted,
	rateLimitedCode:       CauseRateLimited,
	"validation_error":    CauseInvalidRequest,
}

var causeMessages = map[Cause]string{
	CauseUnauthorized:   "Notion API key is invalid. Check NOTION_API_KEY.",
	CauseNotFound:       "Notion page not found. Make sure the integration is connected to the parent page.",
	CauseRestricted:     "No access to the Notion page. Check the integration's connections.",
	CauseRateLimited:    "Notion rate limit reached. Try again in a moment.",
	CauseInvalidRequest: "Notion rejected the request as invalid.",
	CauseUnknown:        "Notion API error.",
}

func (c Cause) String() string {
	switch c {
	case CauseUnauthorized:
		return "unauthorized"
	case CauseNotFound:
		return "not_found"
	case CauseRestricted:
		return "restricted"
	case CauseRateLimited:
		return "rate_limited"
	case CauseInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Message returns a short message telling the user what to check.
func (c Cause) Message() string {
	if msg, ok := causeMessages[c]; ok {
		return msg
	}
	return causeMessages[CauseUnknown]
}

// TransportError is a failed Notion API call.
type TransportError struct {
	Op     string
	Cause  Cause
	Code   string
	Status int
	Err    error
}

// newTransportError classifies err from the operation op.
func newTransportError(op string, err error) *TransportError {
	te := &TransportError{Op: op, Cause: CauseUnknown, Err: err}

	var apiErr *notionapi.Error
	var limited *notionapi.RateLimitedError
	switch {
	case errors.As(err, &apiErr):
		te.Code = string(apiErr.Code)
		te.Status = apiErr.Status
		te.Cause = causeByCode[te.Code]
	case errors.As(err, &limited):
		te.Code = rateLimitedCode
		te.Status = http.StatusTooManyRequests
		te.Cause = CauseRateLimited
	}

	return te
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message for the error.
func (e *TransportError) Message() string {
	if e.Cause != CauseUnknown {
		return e.Cause.Message()
	}
	if e.Code != "" {
		return fmt.Sprintf("Notion API error: %s.", e.Code)
	}
	return fmt.Sprintf("Notion API error: %v", e.Err)
}

// UploadError is returned when the page could not be created. Nothing was
// written.
type UploadError struct {
	Title string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("create page %q: %v", e.Title, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PartialUploadError is returned when the page was created but appending a
// later batch failed. The page holds the first Uploaded blocks.
type PartialUploadError struct {
	PageID   string
	URL      string
	Uploaded int
	Total    int
	Err      error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("append blocks to page %s (%d of %d uploaded): %v", e.PageID, e.Uploaded, e.Total, e.Err)
}

func (e *PartialUploadError) Unwrap() error {
	return e.Err
}

// UserMessage returns the actionable message for an error returned by this
// package, falling back to the error text.
func UserMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message()
	}
	return err.Error()
}
