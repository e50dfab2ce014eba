// Package gateway implements the websocket connection to the modmail
// gateway. It is the concrete transport, thread control, and category
// resolver, and the source of inbound message and thread-ready events.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/logging"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
)

// Ensure Client satisfies the ports it backs.
var (
	_ ports.Transport        = (*Client)(nil)
	_ ports.ThreadControl    = (*Client)(nil)
	_ ports.CategoryResolver = (*Client)(nil)
)

// Client holds one gateway connection. Event handlers must be registered
// before Run; Run owns the read loop until the context is cancelled or the
// socket drops.
type Client struct {
	url   string
	token string

	logger *slog.Logger
	dialer *websocket.Dialer

	writeMu sync.Mutex
	conn    *websocket.Conn

	catMu      sync.RWMutex
	categories map[string]domain.CategoryRef

	onMessage     func(domain.Message)
	onThreadReady func(domain.ThreadReady)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger configures the client's logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a gateway client for the given websocket URL and token.
func NewClient(url, token string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		token:      token,
		logger:     logging.NewNop(),
		dialer:     websocket.DefaultDialer,
		categories: make(map[string]domain.CategoryRef),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnMessage registers the inbound message handler.
func (c *Client) OnMessage(fn func(domain.Message)) {
	c.onMessage = fn
}

// OnThreadReady registers the thread-ready handler.
func (c *Client) OnThreadReady(fn func(domain.ThreadReady)) {
	c.onThreadReady = fn
}

// Run dials the gateway and consumes events until ctx is cancelled or the
// connection drops. It returns domain.ErrGatewayClosed (wrapped) when the
// socket is gone.
func (c *Client) Run(ctx context.Context) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("dial gateway %s: %w", c.url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()

	defer func() {
		c.writeMu.Lock()
		c.conn = nil
		c.writeMu.Unlock()
		conn.Close()
	}()

	// Unblock ReadJSON on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c.logger.Info("gateway connected", "url", c.url)

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("gateway read: %w: %w", domain.ErrGatewayClosed, err)
		}
		c.handleEnvelope(env)
	}
}

// Connected reports whether the socket is currently up.
func (c *Client) Connected() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn != nil
}

func (c *Client) handleEnvelope(env Envelope) {
	switch env.Op {
	case opReady:
		var p readyPayload
		if err := json.Unmarshal(env.D, &p); err != nil {
			c.logger.Warn("bad ready payload", "err", err)
			return
		}
		c.catMu.Lock()
		c.categories = make(map[string]domain.CategoryRef, len(p.Categories))
		for _, cat := range p.Categories {
			c.categories[cat.ID] = cat
		}
		c.catMu.Unlock()
		c.logger.Info("gateway ready", "categories", len(p.Categories))

	case opMessage:
		var m domain.Message
		if err := json.Unmarshal(env.D, &m); err != nil {
			c.logger.Warn("bad message payload", "err", err)
			return
		}
		if c.onMessage != nil {
			c.onMessage(m)
		}

	case opThreadReady:
		var ev domain.ThreadReady
		if err := json.Unmarshal(env.D, &ev); err != nil {
			c.logger.Warn("bad thread_ready payload", "err", err)
			return
		}
		if c.onThreadReady != nil {
			c.onThreadReady(ev)
		}

	case opCategoryCreate:
		var cat domain.CategoryRef
		if err := json.Unmarshal(env.D, &cat); err != nil {
			c.logger.Warn("bad category payload", "err", err)
			return
		}
		c.catMu.Lock()
		c.categories[cat.ID] = cat
		c.catMu.Unlock()

	case opCategoryDelete:
		var cat domain.CategoryRef
		if err := json.Unmarshal(env.D, &cat); err != nil {
			c.logger.Warn("bad category payload", "err", err)
			return
		}
		c.catMu.Lock()
		delete(c.categories, cat.ID)
		c.catMu.Unlock()

	default:
		c.logger.Debug("ignoring unknown gateway op", "op", env.Op)
	}
}

func (c *Client) write(op string, payload any) error {
	env, err := envelope(op, payload)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", op, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return domain.ErrGatewayClosed
	}
	if err := c.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("write %s frame: %w", op, err)
	}
	return nil
}

// Send implements ports.Transport.
func (c *Client) Send(ctx context.Context, ch domain.ChannelRef, msg domain.OutgoingMessage) (*domain.Message, error) {
	id := uuid.NewString()
	err := c.write(opSend, sendPayload{
		ID:      id,
		Channel: ch,
		Author:  msg.Author,
		Content: msg.Content,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Message{ID: id, Channel: ch, Author: msg.Author, Content: msg.Content}, nil
}

// SendSummary implements ports.Transport.
func (c *Client) SendSummary(ctx context.Context, ch domain.ChannelRef, s domain.Summary) (*domain.Message, error) {
	id := uuid.NewString()
	err := c.write(opSendEmbed, sendEmbedPayload{ID: id, Channel: ch, Embed: s})
	if err != nil {
		return nil, err
	}
	return &domain.Message{ID: id, Channel: ch, Author: s.Author}, nil
}

// Pin implements ports.Transport.
func (c *Client) Pin(ctx context.Context, msg *domain.Message) error {
	return c.write(opPin, pinPayload{Channel: msg.Channel, MessageID: msg.ID})
}

// Close implements ports.ThreadControl.
func (c *Client) Close(ctx context.Context, t domain.Thread, closer domain.UserRef, reason string) error {
	return c.write(opCloseThread, closeThreadPayload{ThreadID: t.ID, Closer: closer, Reason: reason})
}

// Relocate implements ports.ThreadControl.
func (c *Client) Relocate(ctx context.Context, t domain.Thread, dest domain.CategoryRef) error {
	return c.write(opRelocateThread, relocateThreadPayload{
		ThreadID:   t.ID,
		CategoryID: dest.ID,
		SyncPerms:  true,
	})
}

// ResolveCategory implements ports.CategoryResolver against the category
// cache maintained from gateway events.
func (c *Client) ResolveCategory(ctx context.Context, id string) (*domain.CategoryRef, error) {
	c.catMu.RLock()
	defer c.catMu.RUnlock()
	if cat, ok := c.categories[id]; ok {
		return &cat, nil
	}
	return nil, domain.ErrCategoryNotFound
}
