package config

type Config struct {
	ConfigVersion int             `yaml:"configVersion"`
	Server        ServerConfig    `yaml:"server"`
	Stopwords     StopwordsConfig `yaml:"stopwords"`
	Scan          ScanConfig      `yaml:"scan"`
	Notify        NotifyConfig    `yaml:"notify"`
	Logging       LoggingConfig   `yaml:"logging"`
	Metrics       MetricsConfig   `yaml:"metrics"`

	baseDir string `yaml:"-"`
}

type ServerConfig struct {
	Listen       string          `yaml:"listen"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxy bool `yaml:"trustProxy"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Key     string  `yaml:"key"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type StopwordsConfig struct {
	Source   string         `yaml:"source"`
	File     string         `yaml:"file"`
	Cache    bool           `yaml:"cache"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type ScanConfig struct {
	Engine    string   `yaml:"engine"`
	BatchSize int      `yaml:"batchSize"`
	Fields    []string `yaml:"fields"`
	Mode      string   `yaml:"mode"`
}

type NotifyConfig struct {
	OverrideAddress string            `yaml:"overrideAddress"`
	DefaultAddress  string            `yaml:"defaultAddress"`
	SiteAddresses   map[string]string `yaml:"siteAddresses"`
	Mailer          string            `yaml:"mailer"`
	From            string            `yaml:"from"`
	FromName        string            `yaml:"fromName"`
	PostLookupURL   string            `yaml:"postLookupURL"`
	SMTP            SMTPConfig        `yaml:"smtp"`

	SendGridAPIKey string `yaml:"-"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"-"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	DecisionLog string `yaml:"decisionLog"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

const (
	MailerLog      = "log"
	MailerSMTP     = "smtp"
	MailerSendGrid = "sendgrid"
)

const (
	defaultListen       = ":8080"
	defaultMaxBodyBytes = 64 << 10
	defaultBatchSize    = 1000
	defaultStopwordFile = "stopwords.txt"
)

// Environment variables holding secrets that never live in the YAML file.
const (
	EnvPostgresDSN   = "STOPGUARD_POSTGRES_DSN"
	EnvRedisPassword = "STOPGUARD_REDIS_PASSWORD"
	EnvSMTPPassword  = "STOPGUARD_SMTP_PASSWORD"
	EnvSendGridKey   = "SENDGRID_API_KEY"
)

func (c *Config) ResolvePath(path string) string {
	return c.resolvePath(path)
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Server.RateLimit.Key == "" {
		c.Server.RateLimit.Key = "ip"
	}
	if c.Stopwords.Source == "" {
		c.Stopwords.Source = SourceFile
	}
	if c.Stopwords.Source == SourceFile && c.Stopwords.File == "" {
		c.Stopwords.File = defaultStopwordFile
	}
	if c.Scan.BatchSize == 0 {
		c.Scan.BatchSize = defaultBatchSize
	}
	if c.Notify.Mailer == "" {
		c.Notify.Mailer = MailerLog
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// ApplyEnv copies secrets from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if dsn := getenv(EnvPostgresDSN); dsn != "" {
		c.Stopwords.Postgres.DSN = dsn
	}
	c.Stopwords.Redis.Password = getenv(EnvRedisPassword)
	c.Notify.SMTP.Password = getenv(EnvSMTPPassword)
	c.Notify.SendGridAPIKey = getenv(EnvSendGridKey)
}
