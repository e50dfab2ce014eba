package ports

import (
	"context"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
)

// Transport sends system-authored messages into channels.
type Transport interface {
	// Send delivers a plain text message and returns the delivered message.
	Send(ctx context.Context, ch domain.ChannelRef, msg domain.OutgoingMessage) (*domain.Message, error)

	// SendSummary delivers a structured answer summary.
	SendSummary(ctx context.Context, ch domain.ChannelRef, s domain.Summary) (*domain.Message, error)

	// Pin pins a previously delivered message in its channel.
	Pin(ctx context.Context, msg *domain.Message) error
}
