package domain

// ChannelKind distinguishes the two addressing modes a message can arrive on.
type ChannelKind string

const (
	// ChannelText is a regular guild text channel (e.g. a thread channel).
	ChannelText ChannelKind = "text"
	// ChannelDM is a direct-message channel with a single user.
	ChannelDM ChannelKind = "dm"
)

// UserRef identifies a user along with the display metadata needed to author
// messages on their behalf.
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ChannelRef identifies a channel and its kind.
type ChannelRef struct {
	ID   string      `json:"id"`
	Kind ChannelKind `json:"kind"`
}

// IsDM reports whether the channel is a direct-message channel.
func (c ChannelRef) IsDM() bool {
	return c.Kind == ChannelDM
}

// CategoryRef identifies a category channels can be organized under.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Attachment is a file attached to an inbound message.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Message is an inbound message as delivered by the gateway.
type Message struct {
	ID          string       `json:"id"`
	Channel     ChannelRef   `json:"channel"`
	Author      UserRef      `json:"author"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// OutgoingMessage is a system-authored message to be sent by the transport.
// A fresh value is constructed per send; it is never reused or mutated.
type OutgoingMessage struct {
	Author  UserRef `json:"author"`
	Content string  `json:"content"`
}
