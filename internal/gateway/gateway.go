// Package gateway exposes the submission check over HTTP.
package gateway

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stopguard/stopguard/internal/config"
	"github.com/stopguard/stopguard/internal/guard"
	"github.com/stopguard/stopguard/internal/notify"
	"github.com/stopguard/stopguard/internal/observability"
	"github.com/stopguard/stopguard/internal/policy"
	"github.com/stopguard/stopguard/internal/ratelimit"
	"github.com/stopguard/stopguard/internal/scan"
	"github.com/stopguard/stopguard/internal/stopwords"
)

// idleBucket is how long a rate limit bucket may sit unused before Prune
// drops it.
const idleBucket = 10 * time.Minute

type Gateway struct {
	router    chi.Router
	guard     *guard.Guard
	source    stopwords.Source
	limiter   *ratelimit.Limiter
	maxBody   int64
	rateLimit config.RateLimitConfig
	metrics   *observability.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func New(cfg *config.Config, g *guard.Guard, source stopwords.Source, logger zerolog.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if g == nil {
		return nil, errors.New("guard is required")
	}

	gw := &Gateway{
		guard:     g,
		source:    source,
		limiter:   ratelimit.NewLimiter(),
		maxBody:   cfg.Server.MaxBodyBytes,
		rateLimit: cfg.Server.RateLimit,
		logger:    logger.With().Str("component", "gateway").Logger(),
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", gw.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/stopwords", gw.handleListStopwords)
		v1.Post("/submissions/check", gw.handleCheck)
	})
	gw.router = r

	return gw, nil
}

func (g *Gateway) SetMetrics(metrics *observability.Metrics) {
	g.metrics = metrics
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// Prune drops rate limit buckets that have been idle for a while.
func (g *Gateway) Prune() int {
	return g.limiter.Prune(g.now().Add(-idleBucket))
}

type checkRequest struct {
	Content     string `json:"content"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	AuthorURL   string `json:"author_url"`
	AuthorIP    string `json:"author_ip"`
	PostID      string `json:"post_id"`
	PostTitle   string `json:"post_title"`
	PostURL     string `json:"post_url"`
	Site        string `json:"site"`
}

type checkResponse struct {
	ID     string        `json:"id"`
	Action policy.Action `json:"action"`
	Fields scan.Fields   `json:"fields"`
}

type rejectionResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (g *Gateway) handleCheck(w http.ResponseWriter, r *http.Request) {
	if g.maxBody > 0 {
		if r.ContentLength > g.maxBody {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, g.maxBody)
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ip := clientIP(r)
	if g.rateLimit.Enabled {
		key := ratelimit.Key(ratelimit.KeyType(g.rateLimit.Key), ip, req.PostID)
		if !g.limiter.Allow(key, g.rateLimit.RPS, g.rateLimit.Burst, g.now()) {
			g.metrics.ObserveRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	authorIP := req.AuthorIP
	if authorIP == "" {
		authorIP = ip
	}

	sub := guard.Submission{
		Fields: scan.Fields{
			Content:     req.Content,
			Author:      req.Author,
			AuthorEmail: req.AuthorEmail,
			AuthorURL:   req.AuthorURL,
			AuthorIP:    authorIP,
		},
		Post:     notify.PostContext{ID: req.PostID, Title: req.PostTitle, URL: req.PostURL},
		Site:     req.Site,
		ClientIP: ip,
	}

	outcome, err := g.guard.Check(r.Context(), sub)
	if err != nil {
		g.logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("check aborted")
		writeError(w, http.StatusServiceUnavailable, "check aborted")
		return
	}

	if outcome.Rejection != nil {
		writeJSON(w, outcome.Rejection.Status, rejectionResponse{
			ID:      outcome.ID,
			Title:   outcome.Rejection.Title,
			Message: outcome.Rejection.Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{ID: outcome.ID, Action: outcome.Action, Fields: outcome.Fields})
}

func (g *Gateway) handleListStopwords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stopwords.List(r.Context(), g.source))
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": string(g.guard.Mode())})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
