package slackclient

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// Cause classifies a failed Slack API call.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseInvalidAuth
	CauseNotInChannel
	CauseMissingScope
	CauseThreadNotFound
	CauseRateLimited
)

const codeRateLimited = "ratelimited"

// causeByCode maps Slack error codes to causes.
var causeByCode = map[string]Cause{
	"invalid_auth":      CauseInvalidAuth,
	"not_authed":        CauseInvalidAuth,
	"channel_not_found": CauseNotInChannel,
	"not_in_channel":    CauseNotInChannel,
	"missing_scope":     CauseMissingScope,
	"thread_not_found":  CauseThreadNotFound,
	codeRateLimited:     CauseRateLimited,
}

var causeMessages = map[Cause]string{
	CauseInvalidAuth:    "Slack token is invalid. Check SLACK_BOT_TOKEN.",
	CauseNotInChannel:   "The bot is not invited to this channel. Invite it with /invite and try again.",
	CauseMissingScope:   "The bot is missing a required permission. Add channels:history, channels:read, groups:read and users:read in the Slack app settings.",
	CauseThreadNotFound: "Thread not found. Check the thread timestamp.",
	CauseRateLimited:    "Slack rate limit reached. Try again in a moment.",
	CauseUnknown:        "Slack API error.",
}

func (c Cause) String() string {
	switch c {
	case CauseInvalidAuth:
		return "invalid_auth"
	case CauseNotInChannel:
		return "not_in_channel"
	case CauseMissingScope:
		return "missing_scope"
	case CauseThreadNotFound:
		return "thread_not_found"
	case CauseRateLimited:
		return "rate_limited"
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

// Error is a failed Slack API call.
type Error struct {
	Op    string
	Cause Cause
	Code  string
	Err   error
}

func newError(op string, err error) *Error {
	code := errorCode(err)
	return &Error{
		Op:    op,
		Cause: causeByCode[code],
		Code:  code,
		Err:   err,
	}
}

// errorCode extracts the Slack error code from err, or "" if there is none.
func errorCode(err error) string {
	var (
		ser slack.SlackErrorResponse
		rle *slack.RateLimitedError
	)
	switch {
	case errors.As(err, &rle):
		return codeRateLimited
	case errors.As(err, &ser):
		return ser.Err
	default:
		return ""
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message for the error.
func (e *Error) Message() string {
	if e.Cause != CauseUnknown {
		return e.Cause.Message()
	}
	if e.Code != "" {
		return fmt.Sprintf("Slack API error: %s.", e.Code)
	}
	return fmt.Sprintf("Slack API error: %v", e.Err)
}

// UserMessage returns the actionable message for an error returned by this
// package, falling back to the error text.
func UserMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
