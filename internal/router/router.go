// Package router connects gateway events to the interview flows: it feeds
// inbound messages to suspended waits, triggers an interview when a thread
// becomes ready, and parses the operator configuration commands.
package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/logging"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/interview"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

// DefaultPrefix is the command prefix when none is configured.
const DefaultPrefix = "?"

// Operator command names. The argument is the destination category ID.
const (
	cmdConfigureQuestions = "configure-questions"
	cmdConfigureOutro     = "configure-outro"
	cmdConfigureIntro     = "configure-intro"
)

const replyNoPermission = "You do not have permission to use this command."

// Router dispatches gateway events. Each triggered flow runs in its own
// goroutine; flows share nothing but the config store.
type Router struct {
	waits  *waiter.Waiter
	runner *interview.Runner
	setup  *interview.Setup
	gate   ports.PermissionGate
	cats   ports.CategoryResolver
	tx     ports.Transport
	bot    domain.UserRef
	scope  string
	prefix string
	logger *slog.Logger

	wg sync.WaitGroup
}

// Option configures a Router.
type Option func(*Router)

// WithPrefix overrides the command prefix.
func WithPrefix(prefix string) Option {
	return func(r *Router) { r.prefix = prefix }
}

// WithLogger configures the router's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New wires the router.
func New(
	waits *waiter.Waiter,
	runner *interview.Runner,
	setup *interview.Setup,
	gate ports.PermissionGate,
	cats ports.CategoryResolver,
	tx ports.Transport,
	bot domain.UserRef,
	scope string,
	opts ...Option,
) *Router {
	r := &Router{
		waits:  waits,
		runner: runner,
		setup:  setup,
		gate:   gate,
		cats:   cats,
		tx:     tx,
		bot:    bot,
		scope:  scope,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleMessage routes one inbound message: pending waits get first look,
// then text-channel messages are checked for operator commands.
func (r *Router) HandleMessage(msg domain.Message) {
	r.waits.Dispatch(msg)

	if msg.Channel.IsDM() || msg.Author.ID == r.bot.ID {
		return
	}
	name, arg, ok := r.parseCommand(msg.Content)
	if !ok {
		return
	}

	var flow func(context.Context, interview.Invocation) error
	switch name {
	case cmdConfigureQuestions:
		flow = r.setup.ConfigureQuestions
	case cmdConfigureOutro:
		flow = r.setup.ConfigureOutro
	case cmdConfigureIntro:
		flow = r.setup.ConfigureIntro
	default:
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runCommand(name, arg, msg, flow)
	}()
}

// HandleThreadReady starts the interview for a fresh thread.
func (r *Router) HandleThreadReady(ev domain.ThreadReady) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.runner.OnThreadReady(context.Background(), ev); err != nil {
			r.logger.Error("interview failed", "thread_id", ev.Thread.ID, "err", err)
		}
	}()
}

// Wait blocks until all in-flight flows finish. Used on shutdown and in
// tests.
func (r *Router) Wait() {
	r.wg.Wait()
}

// parseCommand splits "<prefix><name> <arg>" into its parts.
func (r *Router) parseCommand(content string) (name, arg string, ok bool) {
	if !strings.HasPrefix(content, r.prefix) {
		return "", "", false
	}
	fields := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

func (r *Router) runCommand(name, arg string, msg domain.Message, flow func(context.Context, interview.Invocation) error) {
	ctx := context.Background()
	log := r.logger.With("command", name, "operator", msg.Author.ID)

	if err := r.gate.Authorize(ctx, msg.Author, ports.PermissionLevelModerator); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			log.Info("command rejected")
			r.reply(ctx, msg.Channel, replyNoPermission)
			return
		}
		log.Error("permission check failed", "err", err)
		return
	}

	dest, err := r.cats.ResolveCategory(ctx, arg)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		r.reply(ctx, msg.Channel, "Unknown category: "+arg)
		return
	}
	if err != nil {
		log.Error("category lookup failed", "err", err)
		return
	}

	inv := interview.Invocation{
		Channel:  msg.Channel,
		Operator: msg.Author,
		Scope:    r.scope,
		MoveTo:   *dest,
	}
	if err := flow(ctx, inv); err != nil {
		log.Error("configuration flow failed", "err", err)
	}
}

func (r *Router) reply(ctx context.Context, ch domain.ChannelRef, content string) {
	if _, err := r.tx.Send(ctx, ch, domain.OutgoingMessage{Author: r.bot, Content: content}); err != nil {
		r.logger.Error("reply failed", "err", err)
	}
}
