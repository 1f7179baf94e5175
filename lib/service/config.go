package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DatabaseTimeout         int     `envconfig:"DATABASE_TIMEOUT" default:"60"`             // 60 seconds
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET" required:"true"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	AllowAccountCreation    bool    `envconfig:"ALLOW_ACCOUNT_CREATION" default:"true"`
	JWTRefreshTokenExpiry   int     `envconfig:"JWT_REFRESH_EXPIRY" default:"604800"` // in seconds, default 7 days
	JWTAccessTokenExpiry    int     `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"`  // in seconds, default 2 days
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`

	FrontendBaseUrl string `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:5173"`
	BackendBaseUrl  string `envconfig:"BACKEND_BASE_URL" default:"http://localhost:3000"`
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"KWD"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	RabbitMQUri            string `envconfig:"RABBITMQ_URI"`
	RabbitMQEventsExchange string `envconfig:"RABBITMQ_EVENTS_EXCHANGE" default:"pmp_events"`

	// Invoice rollover: invoices due within the window are rolled to
	// their next billing period once a day.
	RolloverCron       string `envconfig:"ROLLOVER_CRON" default:"0 0 * * *"`
	RolloverWindowDays int    `envconfig:"ROLLOVER_WINDOW_DAYS" default:"7"`

	// Payout reconciliation: bounded retries with an exponential
	// backoff between attempts, terminal failure once the cap is hit.
	PayoutCron                  string `envconfig:"PAYOUT_CRON" default:"0 1 * * *"`
	MaxPayoutAttempts           int    `envconfig:"MAX_PAYOUT_ATTEMPTS" default:"8"`
	PayoutBackoffInitialSeconds int    `envconfig:"PAYOUT_BACKOFF_INITIAL" default:"3600"`  // 1 hour
	PayoutBackoffMaxSeconds     int    `envconfig:"PAYOUT_BACKOFF_MAX" default:"86400"`     // 1 day
}
