package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/logging"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/observability"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

// CloseReasonInactivity is the reason attached to a thread closed because the
// recipient stopped answering.
const CloseReasonInactivity = "Closed due to inactivity and not responding to questions."

const (
	// DefaultResponseTimeout is how long a flow waits for each reply.
	DefaultResponseTimeout = 30 * time.Minute

	// defaultSettle is the pause before the summary is posted, so earlier
	// sends land first in the transcript.
	defaultSettle = time.Second
)

// Runner conducts the recipient-facing interview for one thread at a time.
// It is safe to trigger concurrently for different threads.
type Runner struct {
	store      ports.ConfigStore
	transport  ports.Transport
	threads    ports.ThreadControl
	categories ports.CategoryResolver
	waits      *waiter.Waiter
	bot        domain.UserRef

	logger  *slog.Logger
	metrics *observability.Metrics
	timeout time.Duration
	settle  time.Duration
	now     func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout overrides the per-reply wait timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithSettle overrides the pre-summary pause. Zero disables it.
func WithSettle(d time.Duration) RunnerOption {
	return func(r *Runner) { r.settle = d }
}

// WithLogger configures the runner's logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics configures the runner's collectors.
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithClock overrides the timestamp source used for summaries.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner wires an interview runner to its collaborators.
func NewRunner(
	store ports.ConfigStore,
	transport ports.Transport,
	threads ports.ThreadControl,
	categories ports.CategoryResolver,
	waits *waiter.Waiter,
	bot domain.UserRef,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		store:      store,
		transport:  transport,
		threads:    threads,
		categories: categories,
		waits:      waits,
		bot:        bot,
		logger:     logging.NewNop(),
		metrics:    observability.NewNopMetrics(),
		timeout:    DefaultResponseTimeout,
		settle:     defaultSettle,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnThreadReady runs the interview for a freshly opened thread: intro, one
// question/answer exchange per configured question, summary, outro, and
// relocation. A reply timeout closes the thread and aborts the whole flow.
//
// A scope with no configuration (or no questions) is a silent no-op.
func (r *Runner) OnThreadReady(ctx context.Context, ev domain.ThreadReady) error {
	cfg, err := r.store.Find(ctx, ev.Thread.Scope)
	if errors.Is(err, domain.ErrConfigNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load questionnaire config: %w", err)
	}
	if !cfg.Enabled() {
		return nil
	}

	log := r.logger.With("thread_id", ev.Thread.ID, "scope", ev.Thread.Scope)
	r.metrics.InterviewsStarted.Inc()

	if cfg.Intro != "" {
		if err := r.send(ctx, ev.Thread.Channel, cfg.Intro); err != nil {
			return fmt.Errorf("send intro: %w", err)
		}
	}

	record := &domain.AnswerRecord{}
	var last *domain.Message

	for _, question := range cfg.Questions {
		if err := r.send(ctx, ev.Thread.Channel, question); err != nil {
			return fmt.Errorf("send question: %w", err)
		}

		reply, err := r.waits.Wait(ctx, waiter.FromUserInDM(ev.Thread.Recipient), r.timeout)
		if errors.Is(err, domain.ErrTimeout) {
			r.metrics.InterviewTimeouts.Inc()
			log.Info("recipient stopped responding, closing thread",
				"answered", record.Len(), "questions", len(cfg.Questions))
			if err := r.threads.Close(ctx, ev.Thread, r.bot, CloseReasonInactivity); err != nil {
				return fmt.Errorf("close inactive thread: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("wait for reply: %w", err)
		}

		record.Add(question, domain.AnswerText(*reply))
		last = reply
	}

	// Let the last exchanges land before the summary, to preserve transcript
	// order. Not semantically required.
	if r.settle > 0 {
		select {
		case <-time.After(r.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	summary := domain.NewSummary(record, last.Author, r.now())
	posted, err := r.transport.SendSummary(ctx, ev.Thread.Channel, summary)
	if err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	if err := r.transport.Pin(ctx, posted); err != nil {
		return fmt.Errorf("pin summary: %w", err)
	}

	if cfg.Outro != "" {
		if err := r.send(ctx, ev.Thread.Channel, cfg.Outro); err != nil {
			return fmt.Errorf("send outro: %w", err)
		}
	}

	if err := r.relocate(ctx, ev.Thread, cfg.MoveTo, log); err != nil {
		return err
	}

	r.metrics.InterviewsCompleted.Inc()
	return nil
}

// relocate moves the thread under the configured category. A destination that
// no longer exists (or was never set) is non-fatal: warn and leave the thread
// where it is.
func (r *Runner) relocate(ctx context.Context, t domain.Thread, moveTo string, log *slog.Logger) error {
	if moveTo == "" {
		log.Warn("move-to category not configured, not moving")
		return nil
	}
	dest, err := r.categories.ResolveCategory(ctx, moveTo)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		log.Warn("move-to category does not exist, not moving", "category_id", moveTo)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve move-to category: %w", err)
	}
	if err := r.threads.Relocate(ctx, t, *dest); err != nil {
		return fmt.Errorf("relocate thread: %w", err)
	}
	return nil
}

func (r *Runner) send(ctx context.Context, ch domain.ChannelRef, content string) error {
	_, err := r.transport.Send(ctx, ch, domain.OutgoingMessage{Author: r.bot, Content: content})
	return err
}
