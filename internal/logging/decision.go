package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxEvidence = 64

// Decision is written as a single JSON object per checked submission.
type Decision struct {
	Timestamp  time.Time `json:"ts"`
	ID         string    `json:"id"`
	Site       string    `json:"site,omitempty"`
	PostID     string    `json:"post_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	Mode       string    `json:"mode"`
	Action     string    `json:"action"`
	StatusCode int       `json:"status_code"`
	Field      string    `json:"field,omitempty"`
	Term       string    `json:"term,omitempty"`
	Stopwords  int       `json:"stopwords"`
	Batches    int       `json:"batches"`
	DurationMS int64     `json:"duration_ms"`
}

type DecisionLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewDecisionLogger(w io.Writer) *DecisionLogger {
	return &DecisionLogger{w: w}
}

func OpenDecisionLog(path string) (*DecisionLogger, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewDecisionLogger(file), file.Close, nil
}

func (l *DecisionLogger) Write(decision Decision) error {
	decision.Term = truncateEvidence(decision.Term)

	data, err := json.Marshal(decision)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(append(data, '\n'))
	return err
}

func truncateEvidence(term string) string {
	if len(term) <= maxEvidence {
		return term
	}
	return term[:maxEvidence]
}
