package gateway

import (
	"encoding/json"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// Envelope is the wire frame exchanged with the modmail gateway: an opcode
// and an op-specific payload.
type Envelope struct {
	Op string          `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
}

// Inbound opcodes.
const (
	opReady          = "ready"
	opMessage        = "message"
	opThreadReady    = "thread_ready"
	opCategoryCreate = "category_create"
	opCategoryDelete = "category_delete"
)

// Outbound opcodes.
const (
	opSend           = "send"
	opSendEmbed      = "send_embed"
	opPin            = "pin"
	opCloseThread    = "close_thread"
	opRelocateThread = "relocate_thread"
)

// readyPayload is the connection snapshot: the current category tree.
type readyPayload struct {
	Categories []domain.CategoryRef `json:"categories"`
}

type sendPayload struct {
	ID      string            `json:"id"`
	Channel domain.ChannelRef `json:"channel"`
	Author  domain.UserRef    `json:"author"`
	Content string            `json:"content"`
}

type sendEmbedPayload struct {
	ID      string            `json:"id"`
	Channel domain.ChannelRef `json:"channel"`
	Embed   domain.Summary    `json:"embed"`
}

type pinPayload struct {
	Channel   domain.ChannelRef `json:"channel"`
	MessageID string            `json:"message_id"`
}

type closeThreadPayload struct {
	ThreadID string         `json:"thread_id"`
	Closer   domain.UserRef `json:"closer"`
	Reason   string         `json:"reason"`
}

type relocateThreadPayload struct {
	ThreadID   string `json:"thread_id"`
	CategoryID string `json:"category_id"`
	SyncPerms  bool   `json:"sync_permissions"`
}

func envelope(op string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Op: op, D: data}, nil
}
