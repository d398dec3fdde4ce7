package slackclient

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// userCache maps user IDs to display names for the lifetime of the process.
type userCache struct {
	mu    sync.Mutex
	names map[string]string
}

func newUserCache() *userCache {
	return &userCache{names: make(map[string]string)}
}

func (uc *userCache) get(id string) (string, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	name, ok := uc.names[id]
	return name, ok
}

func (uc *userCache) put(id, name string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.names[id] = name
}

// UserName returns the name to show for a user: the display name, then the
// profile real name, then the account real name, then the ID itself. Lookup
// failures resolve to the ID. Every result is cached.
func (c *Client) UserName(ctx context.Context, userID string) string {
	if name, ok := c.users.get(userID); ok {
		return name
	}

	name := userID
	err := c.call(ctx, func() error {
		user, err := c.api.GetUserInfoContext(ctx, userID)
		if err != nil {
			return err
		}
		switch {
		case user.Profile.DisplayName != "":
			name = user.Profile.DisplayName
		case user.Profile.RealName != "":
			name = user.Profile.RealName
		case user.RealName != "":
			name = user.RealName
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("user lookup failed", zap.String("user", userID), zap.Error(err))
	}

	c.users.put(userID, name)
	return name
}

// ResolveUserNames returns a copy of messages with UserName set on every
// message that has a user.
func (c *Client) ResolveUserNames(ctx context.Context, messages []Message) []Message {
	result := make([]Message, len(messages))
	for i, m := range messages {
		if m.User != "" {
			m.UserName = c.UserName(ctx, m.User)
		}
		result[i] = m
	}
	return result
}
