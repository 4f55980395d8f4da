package notify

import (
	"context"

	"github.com/stopguard/stopguard/internal/scan"
)

// Hook observes a blocked submission right before the notification is sent.
// Hooks cannot change the block decision.
type Hook interface {
	BeforeNotify(ctx context.Context, fields scan.Fields, term string)
}

type HookFunc func(ctx context.Context, fields scan.Fields, term string)

func (f HookFunc) BeforeNotify(ctx context.Context, fields scan.Fields, term string) {
	f(ctx, fields, term)
}
