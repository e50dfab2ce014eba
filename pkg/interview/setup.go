package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/logging"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/observability"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

// Operator-visible replies of the configuration flows. Kept verbatim from the
// original command surface.
const (
	replyTimedOut     = "Timed out."
	replyInvalidInput = "Invalid input."
	replySaved        = "Saved"
)

// Invocation carries the context of one operator command: where it was
// issued, by whom, the scope it configures, and the pre-resolved destination
// category supplied as the command argument.
type Invocation struct {
	Channel  domain.ChannelRef
	Operator domain.UserRef
	Scope    string
	MoveTo   domain.CategoryRef
}

// Setup runs the operator-facing configuration interviews. All three variants
// collect replies from the invoking operator in the invoking channel; a
// timeout or validation failure aborts without persisting anything.
type Setup struct {
	store     ports.ConfigStore
	transport ports.Transport
	waits     *waiter.Waiter
	bot       domain.UserRef

	logger  *slog.Logger
	metrics *observability.Metrics
	timeout time.Duration
}

// SetupOption configures a Setup.
type SetupOption func(*Setup)

// WithSetupTimeout overrides the per-reply wait timeout.
func WithSetupTimeout(d time.Duration) SetupOption {
	return func(s *Setup) { s.timeout = d }
}

// WithSetupLogger configures the logger.
func WithSetupLogger(l *slog.Logger) SetupOption {
	return func(s *Setup) { s.logger = l }
}

// WithSetupMetrics configures the collectors.
func WithSetupMetrics(m *observability.Metrics) SetupOption {
	return func(s *Setup) { s.metrics = m }
}

// NewSetup wires the configuration flows to their collaborators.
func NewSetup(
	store ports.ConfigStore,
	transport ports.Transport,
	waits *waiter.Waiter,
	bot domain.UserRef,
	opts ...SetupOption,
) *Setup {
	s := &Setup{
		store:     store,
		transport: transport,
		waits:     waits,
		bot:       bot,
		logger:    logging.NewNop(),
		metrics:   observability.NewNopMetrics(),
		timeout:   DefaultResponseTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConfigureQuestions asks the operator how many questions they have, then
// collects each one, and persists the list together with the destination
// category. Non-integer or non-positive counts and empty question replies
// abort the flow with a visible message; nothing partial is persisted.
func (s *Setup) ConfigureQuestions(ctx context.Context, inv Invocation) error {
	if err := s.send(ctx, inv.Channel, "How many questions do you have?"); err != nil {
		return err
	}
	reply, done, err := s.awaitOperator(ctx, inv)
	if done || err != nil {
		return err
	}

	count, convErr := strconv.Atoi(strings.TrimSpace(reply.Content))
	if convErr != nil || count <= 0 {
		return s.send(ctx, inv.Channel, replyInvalidInput)
	}

	questions := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		if err := s.send(ctx, inv.Channel, fmt.Sprintf("What's question #%d?", i)); err != nil {
			return err
		}
		reply, done, err := s.awaitOperator(ctx, inv)
		if done || err != nil {
			return err
		}
		if reply.Content == "" {
			return s.send(ctx, inv.Channel, "Question must be text-only.")
		}
		questions = append(questions, reply.Content)
	}

	err = s.store.UpsertMerge(ctx, inv.Scope, map[string]any{
		domain.FieldQuestions: questions,
		domain.FieldMoveTo:    inv.MoveTo.ID,
	})
	if err != nil {
		return fmt.Errorf("persist questions: %w", err)
	}
	s.metrics.ConfigUpdates.WithLabelValues("questions").Inc()
	s.logger.Info("questions configured", "scope", inv.Scope, "count", len(questions), "move_to", inv.MoveTo.ID)
	return s.send(ctx, inv.Channel, replySaved)
}

// ConfigureOutro collects the outro text and persists it with the
// destination category.
func (s *Setup) ConfigureOutro(ctx context.Context, inv Invocation) error {
	return s.configureText(ctx, inv, domain.FieldOutro, "Outro", "Type the outro you want")
}

// ConfigureIntro collects the intro text and persists it with the
// destination category.
func (s *Setup) ConfigureIntro(ctx context.Context, inv Invocation) error {
	return s.configureText(ctx, inv, domain.FieldIntro, "Intro", "Type the intro you want")
}

func (s *Setup) configureText(ctx context.Context, inv Invocation, field, noun, prompt string) error {
	if err := s.send(ctx, inv.Channel, prompt); err != nil {
		return err
	}
	reply, done, err := s.awaitOperator(ctx, inv)
	if done || err != nil {
		return err
	}
	if reply.Content == "" {
		return s.send(ctx, inv.Channel, noun+" must be text-only.")
	}

	err = s.store.UpsertMerge(ctx, inv.Scope, map[string]any{
		field:              reply.Content,
		domain.FieldMoveTo: inv.MoveTo.ID,
	})
	if err != nil {
		return fmt.Errorf("persist %s: %w", field, err)
	}
	s.metrics.ConfigUpdates.WithLabelValues(field).Inc()
	s.logger.Info("text configured", "field", field, "scope", inv.Scope, "move_to", inv.MoveTo.ID)
	return s.send(ctx, inv.Channel, replySaved)
}

// awaitOperator waits for the operator's next message in the invoking
// channel. done is true when the flow already ended (timeout reply sent) and
// the caller should stop without treating it as an error.
func (s *Setup) awaitOperator(ctx context.Context, inv Invocation) (reply *domain.Message, done bool, err error) {
	m := waiter.FromMemberInChannel(inv.Channel, inv.Operator)
	reply, err = s.waits.Wait(ctx, m, s.timeout)
	if errors.Is(err, domain.ErrTimeout) {
		s.logger.Info("configuration flow timed out", "scope", inv.Scope, "operator", inv.Operator.ID)
		return nil, true, s.send(ctx, inv.Channel, replyTimedOut)
	}
	if err != nil {
		return nil, false, fmt.Errorf("wait for operator reply: %w", err)
	}
	return reply, false, nil
}

func (s *Setup) send(ctx context.Context, ch domain.ChannelRef, content string) error {
	_, err := s.transport.Send(ctx, ch, domain.OutgoingMessage{Author: s.bot, Content: content})
	return err
}
