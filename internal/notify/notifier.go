package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stopguard/stopguard/internal/observability"
	"github.com/stopguard/stopguard/internal/scan"
)

const defaultSendTimeout = 30 * time.Second

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Event is a blocked submission awaiting notification.
type Event struct {
	Fields scan.Fields
	Field  scan.Field
	Term   string
	// Post carries whatever the caller already knows about the content.
	// Title and URL are looked up when both are empty.
	Post PostContext
	Site string
}

type Config struct {
	// OverrideAddress takes precedence over the resolver when non-empty.
	OverrideAddress string
	Resolver        RecipientResolver
	Posts           PostLookup
	Mailer          Mailer
	SendTimeout     time.Duration
}

type Notifier struct {
	override string
	resolver RecipientResolver
	posts    PostLookup
	mailer   Mailer
	timeout  time.Duration
	logger   zerolog.Logger
	metrics  *observability.Metrics

	mu    sync.RWMutex
	hooks []Hook

	inflight sync.WaitGroup
}

func NewNotifier(cfg Config, logger zerolog.Logger) *Notifier {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	return &Notifier{
		override: cfg.OverrideAddress,
		resolver: cfg.Resolver,
		posts:    cfg.Posts,
		mailer:   mailer,
		timeout:  timeout,
		logger:   logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *Notifier) SetMetrics(metrics *observability.Metrics) {
	n.metrics = metrics
}

// Register adds hooks. Hooks run in registration order.
func (n *Notifier) Register(hooks ...Hook) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, hooks...)
}

// Notify resolves the recipient and runs the hooks, then looks up the post
// and hands the payload to the mailer in the background. It returns once the
// send has been dispatched; lookup and delivery failures are only logged.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	to, err := ResolveRecipient(ctx, n.override, n.resolver, event.Site)
	if err != nil {
		n.logger.Error().Err(err).Str("site", event.Site).Msg("resolve notification recipient")
		n.metrics.ObserveNotification(StatusSkipped)
		return
	}

	n.runHooks(ctx, event.Fields, event.Term)

	sendCtx := context.WithoutCancel(ctx)
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		sendCtx, cancel := context.WithTimeout(sendCtx, n.timeout)
		defer cancel()

		post := n.lookupPost(sendCtx, event.Post)
		payload := Build(to, event.Fields, event.Field, event.Term, post)

		if err := n.mailer.Send(sendCtx, payload); err != nil {
			n.logger.Error().Err(err).Str("to", payload.To).Msg("send notification")
			n.metrics.ObserveNotification(StatusFailed)
			return
		}
		n.metrics.ObserveNotification(StatusSent)
	}()
}

func (n *Notifier) lookupPost(ctx context.Context, post PostContext) PostContext {
	if n.posts == nil || post.ID == "" || post.Title != "" || post.URL != "" {
		return post
	}
	found, err := n.posts.Lookup(ctx, post.ID)
	if err != nil {
		n.logger.Warn().Err(err).Str("post_id", post.ID).Msg("lookup post")
		return post
	}
	return found
}

// Wait blocks until every dispatched send has finished.
func (n *Notifier) Wait() {
	n.inflight.Wait()
}

func (n *Notifier) runHooks(ctx context.Context, fields scan.Fields, term string) {
	n.mu.RLock()
	hooks := append([]Hook(nil), n.hooks...)
	n.mu.RUnlock()

	for _, hook := range hooks {
		n.runHook(ctx, hook, fields, term)
	}
}

func (n *Notifier) runHook(ctx context.Context, hook Hook, fields scan.Fields, term string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error().Interface("panic", r).Msg("notification hook panicked")
		}
	}()
	hook.BeforeNotify(ctx, fields, term)
}
