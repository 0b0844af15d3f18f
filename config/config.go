package config

import (
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/tracing"
)

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"8080"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Logger      *logger.Config
	Tracing     *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Host            string `env:"MAILPIN_POSTGRES_HOST,required"`
	Port            string `env:"MAILPIN_POSTGRES_PORT,required"`
	User            string `env:"MAILPIN_POSTGRES_USER,required"`
	DBName          string `env:"MAILPIN_POSTGRES_DB_NAME,required"`
	Password        string `env:"MAILPIN_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"MAILPIN_POSTGRES_DB_MAX_CONN" envDefault:"25"`
	MaxIdleConn     int    `env:"MAILPIN_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"MAILPIN_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"MAILPIN_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"MAILPIN_POSTGRES_SSL_MODE" envDefault:"disable"`
}

// StorageConfig selects where attachment bytes are written. The default
// local backend mirrors the database content column onto disk; the s3
// backend is for deployments without a durable local filesystem.
type StorageConfig struct {
	Backend        string `env:"ATTACHMENT_STORAGE_BACKEND" envDefault:"local"`
	LocalDir       string `env:"ATTACHMENT_STORAGE_DIR" envDefault:"static/attachments"`
	S3Region       string `env:"ATTACHMENT_S3_REGION"`
	S3AccessKeyID  string `env:"ATTACHMENT_S3_ACCESS_KEY_ID"`
	S3AccessSecret string `env:"ATTACHMENT_S3_ACCESS_KEY_SECRET"`
	S3Bucket       string `env:"ATTACHMENT_S3_BUCKET" envDefault:"attachments"`
}

type PostmarkConfig struct {
	URL            string `env:"POSTMARK_API_URL" envDefault:"https://api.postmarkapp.com"`
	ServerToken    string `env:"POSTMARK_SERVER_TOKEN,required"`
	FromAddress    string `env:"POSTMARK_FROM_ADDRESS,required"`
	MessageStream  string `env:"POSTMARK_MESSAGE_STREAM" envDefault:"outbound"`
	TimeoutSeconds int    `env:"POSTMARK_TIMEOUT_SECONDS" envDefault:"10"`
}

type CronConfig struct {
	AttachmentIntegritySchedule string `env:"CRON_SCHEDULE_ATTACHMENT_INTEGRITY" envDefault:"@hourly"`
	AttachmentIntegrityWindow   int    `env:"CRON_ATTACHMENT_INTEGRITY_WINDOW_HOURS" envDefault:"24"`
}

type Config struct {
	AppConfig      *AppConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	DatabaseConfig *DatabaseConfig
	StorageConfig  *StorageConfig
	PostmarkConfig *PostmarkConfig
	CronConfig     *CronConfig
}
