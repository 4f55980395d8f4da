package config

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stopguard/stopguard/internal/policy"
	"github.com/stopguard/stopguard/internal/ratelimit"
	"github.com/stopguard/stopguard/internal/rules"
	"github.com/stopguard/stopguard/internal/scan"
)

type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s)", len(v.Problems))
}

func (c *Config) Validate() error {
	v := &ValidationError{}

	if c.ConfigVersion != 1 {
		v.Add("configVersion must be 1")
	}

	if err := validateListen(c.Server.Listen); err != nil {
		v.Add("server.listen invalid: %v", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		v.Add("server.maxBodyBytes must be > 0")
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			v.Add("server.rateLimit.rps must be > 0")
		}
		if c.Server.RateLimit.Burst <= 0 {
			v.Add("server.rateLimit.burst must be > 0")
		}
		switch ratelimit.KeyType(c.Server.RateLimit.Key) {
		case ratelimit.KeyIP, ratelimit.KeyIPPost:
		default:
			v.Add("server.rateLimit.key must be ip|ip_post")
		}
	}

	if c.Metrics.Enabled {
		if err := validateListen(c.Metrics.Listen); err != nil {
			v.Add("metrics.listen invalid: %v", err)
		}
	}

	switch c.Stopwords.Source {
	case SourceFile:
		// a missing list is allowed and means nothing is prohibited
		if c.Stopwords.File == "" {
			v.Add("stopwords.file is required for the file source")
		}
	case SourcePostgres:
		if c.Stopwords.Postgres.DSN == "" {
			v.Add("stopwords.postgres.dsn (or %s) is required for the postgres source", EnvPostgresDSN)
		}
	case SourceRedis:
		if c.Stopwords.Redis.Address == "" {
			v.Add("stopwords.redis.address is required for the redis source")
		} else if _, _, err := net.SplitHostPort(c.Stopwords.Redis.Address); err != nil {
			v.Add("stopwords.redis.address invalid: %v", err)
		}
	default:
		v.Add("stopwords.source must be file|postgres|redis")
	}

	if _, err := rules.ParseEngine(c.Scan.Engine); err != nil {
		v.Add("scan.engine invalid: %v", err)
	}
	if c.Scan.BatchSize < 0 {
		v.Add("scan.batchSize must be >= 0")
	}
	if _, err := scan.ParseFields(c.Scan.Fields); err != nil {
		v.Add("scan.fields invalid: %v", err)
	}
	if _, err := policy.ParseMode(c.Scan.Mode); err != nil {
		v.Add("scan.mode must be enforce|shadow")
	}

	if c.Notify.OverrideAddress != "" {
		if err := validateAddress(c.Notify.OverrideAddress); err != nil {
			v.Add("notify.overrideAddress invalid: %v", err)
		}
	}
	if c.Notify.DefaultAddress != "" {
		if err := validateAddress(c.Notify.DefaultAddress); err != nil {
			v.Add("notify.defaultAddress invalid: %v", err)
		}
	}
	for site, addr := range c.Notify.SiteAddresses {
		if err := validateAddress(addr); err != nil {
			v.Add("notify.siteAddresses.%s invalid: %v", site, err)
		}
	}
	if c.Notify.PostLookupURL != "" {
		if err := validateURL(strings.ReplaceAll(c.Notify.PostLookupURL, "{id}", "0")); err != nil {
			v.Add("notify.postLookupURL invalid: %v", err)
		}
	}
	switch c.Notify.Mailer {
	case MailerLog:
	case MailerSMTP:
		if c.Notify.SMTP.Host == "" {
			v.Add("notify.smtp.host is required for the smtp mailer")
		}
		if c.Notify.SMTP.Port < 0 || c.Notify.SMTP.Port > 65535 {
			v.Add("notify.smtp.port must be between 0 and 65535")
		}
		if err := validateAddress(c.Notify.From); err != nil {
			v.Add("notify.from invalid: %v", err)
		}
	case MailerSendGrid:
		if c.Notify.SendGridAPIKey == "" {
			v.Add("%s is required for the sendgrid mailer", EnvSendGridKey)
		}
		if err := validateAddress(c.Notify.From); err != nil {
			v.Add("notify.from invalid: %v", err)
		}
	default:
		v.Add("notify.mailer must be log|smtp|sendgrid")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		v.Add("logging.level invalid: %v", err)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		v.Add("logging.format must be json|console")
	}

	if len(v.Problems) > 0 {
		sort.Strings(v.Problems)
		return v
	}
	return nil
}

func validateListen(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is required")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("must include scheme and host")
	}
	return nil
}

func validateAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is required")
	}
	_, err := mail.ParseAddress(addr)
	return err
}
