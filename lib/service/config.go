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
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	// PublicUrl is the externally reachable base URL the gateway redirects
	// back to after checkout.
	PublicUrl               string `envconfig:"PUBLIC_URL" default:"http://localhost:3000"`
	DefaultRateLimit        int    `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int    `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int    `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool   `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int    `envconfig:"PROMETHEUS_PORT" default:"9092"`
	NotificationWebhookUrl  string `envconfig:"NOTIFICATION_WEBHOOK_URL"`
	RabbitMQUri             string `envconfig:"RABBITMQ_URI"`
	RabbitMQPaymentExchange string `envconfig:"RABBITMQ_PAYMENT_EXCHANGE" default:"paylink_payment"`
}
