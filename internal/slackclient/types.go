package slackclient

import "github.com/slack-go/slack"

// Channel is a channel in the channel list.
type Channel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Topic      string `json:"topic"`
	NumMembers int    `json:"num_members"`
}

// ChannelInfo holds the details of one channel.
type ChannelInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Topic      string `json:"topic"`
	Purpose    string `json:"purpose"`
	NumMembers int    `json:"num_members"`
	IsPrivate  bool   `json:"is_private"`
	IsArchived bool   `json:"is_archived"`
	Created    int64  `json:"created"`
}

// Message is a channel or thread message. UserName is filled in by
// ResolveUserNames.
type Message struct {
	TS         string `json:"ts"`
	User       string `json:"user,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Text       string `json:"text"`
	ThreadTS   string `json:"thread_ts,omitempty"`
	ReplyCount int    `json:"reply_count,omitempty"`
}

func channelFrom(ch slack.Channel) Channel {
	return Channel{
		ID:         ch.ID,
		Name:       ch.Name,
		Topic:      ch.Topic.Value,
		NumMembers: ch.NumMembers,
	}
}

func channelInfoFrom(ch *slack.Channel) *ChannelInfo {
	return &ChannelInfo{
		ID:         ch.ID,
		Name:       ch.Name,
		Topic:      ch.Topic.Value,
		Purpose:    ch.Purpose.Value,
		NumMembers: ch.NumMembers,
		IsPrivate:  ch.IsPrivate,
		IsArchived: ch.IsArchived,
		Created:    int64(ch.Created),
	}
}

func messagesFrom(msgs []slack.Message) []Message {
	result := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, Message{
			TS:         m.Timestamp,
			User:       m.User,
			Text:       m.Text,
			ThreadTS:   m.ThreadTimestamp,
			ReplyCount: m.ReplyCount,
		})
	}
	return result
}
