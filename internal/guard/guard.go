// Package guard runs the per-submission check: load the current stopword
// list, scan the submission, decide, and notify the operator when a
// submission is rejected.
package guard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stopguard/stopguard/internal/logging"
	"github.com/stopguard/stopguard/internal/notify"
	"github.com/stopguard/stopguard/internal/observability"
	"github.com/stopguard/stopguard/internal/policy"
	"github.com/stopguard/stopguard/internal/scan"
	"github.com/stopguard/stopguard/internal/stopwords"
)

const (
	RejectionTitle   = "Comment Blocked"
	RejectionMessage = "Your comment contains prohibited words and cannot be posted."
)

// Submission is one comment about to be stored.
type Submission struct {
	Fields   scan.Fields
	Post     notify.PostContext
	Site     string
	ClientIP string
}

// Rejection tells the caller to stop the submission and show the message.
type Rejection struct {
	Status  int    `json:"-"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Outcome of a check. Rejection is nil unless the submission must be
// stopped; Fields is the submission as received.
type Outcome struct {
	ID        string
	Action    policy.Action
	Result    scan.Result
	Fields    scan.Fields
	Rejection *Rejection
}

func (o Outcome) Rejected() bool {
	return o.Rejection != nil
}

// Notifier receives blocked submissions.
type Notifier interface {
	Notify(ctx context.Context, event notify.Event)
}

type Config struct {
	Source    stopwords.Source
	BatchSize int
	Scanner   *scan.Scanner
	Mode      policy.Mode
	Notifier  Notifier
}

type Guard struct {
	source    stopwords.Source
	batchSize int
	scanner   *scan.Scanner
	mode      policy.Mode
	notifier  Notifier
	logger    zerolog.Logger

	decisionLog *logging.DecisionLogger
	metrics     *observability.Metrics

	now   func() time.Time
	newID func() string
}

func New(cfg Config, logger zerolog.Logger) (*Guard, error) {
	if cfg.Scanner == nil {
		return nil, errors.New("scanner is required")
	}
	mode, err := policy.ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = stopwords.DefaultBatchSize
	}
	return &Guard{
		source:    cfg.Source,
		batchSize: batchSize,
		scanner:   cfg.Scanner,
		mode:      mode,
		notifier:  cfg.Notifier,
		logger:    logger.With().Str("component", "guard").Logger(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}, nil
}

func (g *Guard) SetDecisionLogger(logger *logging.DecisionLogger) {
	g.decisionLog = logger
}

func (g *Guard) SetMetrics(metrics *observability.Metrics) {
	g.metrics = metrics
}

func (g *Guard) Mode() policy.Mode {
	return g.mode
}

// Check evaluates one submission. The stopword list is re-read on every
// call so list edits apply to the next submission. The only error is a
// context that is already done.
func (g *Guard) Check(ctx context.Context, sub Submission) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	start := g.now()
	set := stopwords.LoadFrom(ctx, g.source, g.batchSize)
	result := g.scanner.Scan(sub.Fields, set)
	action, reject := policy.DecideAction(g.mode, result.Blocked)

	outcome := Outcome{
		ID:     g.newID(),
		Action: action,
		Result: result,
		Fields: sub.Fields,
	}

	if reject {
		outcome.Rejection = &Rejection{
			Status:  http.StatusForbidden,
			Title:   RejectionTitle,
			Message: RejectionMessage,
		}
		if g.notifier != nil {
			g.notifier.Notify(ctx, notify.Event{
				Fields: sub.Fields,
				Field:  result.Field,
				Term:   result.Term,
				Post:   sub.Post,
				Site:   sub.Site,
			})
		}
	}

	status := http.StatusOK
	if outcome.Rejection != nil {
		status = outcome.Rejection.Status
	}

	decision := logging.Decision{
		Timestamp:  start.UTC(),
		ID:         outcome.ID,
		Site:       sub.Site,
		PostID:     sub.Post.ID,
		ClientIP:   sub.ClientIP,
		Mode:       string(g.mode),
		Action:     string(action),
		StatusCode: status,
		Field:      string(result.Field),
		Term:       result.Term,
		Stopwords:  set.Len(),
		Batches:    len(set.Batches()),
		DurationMS: g.now().Sub(start).Milliseconds(),
	}
	g.record(decision)

	if result.Blocked {
		g.logger.Info().
			Str("id", outcome.ID).
			Str("action", string(action)).
			Str("field", string(result.Field)).
			Str("post_id", sub.Post.ID).
			Msg("prohibited term matched")
	}

	return outcome, nil
}

func (g *Guard) record(decision logging.Decision) {
	if g.decisionLog != nil {
		if err := g.decisionLog.Write(decision); err != nil {
			g.logger.Warn().Err(err).Msg("write decision")
		}
	}
	g.metrics.Observe(decision)
}
