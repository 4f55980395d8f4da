package notify

import (
	"context"
	"errors"
	"strings"
)

var ErrNoRecipient = errors.New("no notification recipient configured")

// RecipientResolver returns the platform's administrator address for a site.
type RecipientResolver interface {
	DefaultRecipient(ctx context.Context, site string) (string, error)
}

// StaticResolver always returns the same address.
type StaticResolver string

func (s StaticResolver) DefaultRecipient(context.Context, string) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoRecipient
	}
	return strings.TrimSpace(string(s)), nil
}

// SiteResolver maps sites to administrator addresses, falling back to
// Default for unknown sites.
type SiteResolver struct {
	Sites   map[string]string
	Default string
}

func (s SiteResolver) DefaultRecipient(ctx context.Context, site string) (string, error) {
	if addr := strings.TrimSpace(s.Sites[site]); addr != "" {
		return addr, nil
	}
	return StaticResolver(s.Default).DefaultRecipient(ctx, site)
}

// ResolveRecipient prefers a non-empty override and otherwise asks the
// resolver. It is evaluated for every notification.
func ResolveRecipient(ctx context.Context, override string, resolver RecipientResolver, site string) (string, error) {
	if addr := strings.TrimSpace(override); addr != "" {
		return addr, nil
	}
	if resolver == nil {
		return "", ErrNoRecipient
	}
	return resolver.DefaultRecipient(ctx, site)
}
