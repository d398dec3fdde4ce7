package slackclient

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		cause Cause
		code  string
	}{
		{"invalid auth", slackErr("invalid_auth"), CauseInvalidAuth, "invalid_auth"},
		{"not authed", slackErr("not_authed"), CauseInvalidAuth, "not_authed"},
		{"channel not found", slackErr("channel_not_found"), CauseNotInChannel, "channel_not_found"},
		{"not in channel", slackErr("not_in_channel"), CauseNotInChannel, "not_in_channel"},
		{"missing scope", slackErr("missing_scope"), CauseMissingScope, "missing_scope"},
		{"thread not found", slackErr("thread_not_found"), CauseThreadNotFound, "thread_not_found"},
		{"rate limited", &slack.RateLimitedError{RetryAfter: time.Second}, CauseRateLimited, "ratelimited"},
		{"wrapped", fmt.Errorf("call: %w", slackErr("missing_scope")), CauseMissingScope, "missing_scope"},
		{"unknown code", slackErr("some_other_error"), CauseUnknown, "some_other_error"},
		{"plain error", errors.New("dial tcp: timeout"), CauseUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := newError("op", tt.err)

			assert.Equal(t, tt.cause, se.Cause)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.err, se.Err)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Contains(t, newError("op", slackErr("invalid_auth")).Message(), "SLACK_BOT_TOKEN")
	assert.Contains(t, newError("op", slackErr("missing_scope")).Message(), "channels:history")
	assert.Contains(t, newError("op", slackErr("some_other_error")).Message(), "some_other_error")
	assert.Contains(t, newError("op", errors.New("dial tcp: timeout")).Message(), "dial tcp")

	assert.Equal(t, "fetch thread: thread_not_found", newError("fetch thread", slackErr("thread_not_found")).Error())
}

func TestCauseMessage(t *testing.T) {
	for c := CauseUnknown; c <= CauseRateLimited; c++ {
		assert.NotEmpty(t, c.Message(), c.String())
	}
	assert.Equal(t, CauseUnknown.Message(), Cause(42).Message())
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", newError("op", slackErr("not_in_channel")))
	assert.Equal(t, CauseNotInChannel.Message(), UserMessage(wrapped))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
