package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	ProviderAWS   = "aws"
	ProviderMinio = "minio"
)

type (
	APP struct {
		Name          string
		Host          string
		Port          string
		Env           string
		PublicDir     string
		ViewsDir      string
		StaticMaxAge  time.Duration
		LandingKey    string
		LandingSecret string
	}
	S3 struct {
		Provider        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		EndpointURL     string
		PresignTTL      time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App APP
		S3  S3
		MQ  MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func loadMQ() MQ {
	return MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "uploads"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "upload_url_events"),
	}
}

// LoadMQ reads and checks only the RabbitMQ group, for processes that never
// presign.
func LoadMQ() (MQ, error) {
	mq := loadMQ()
	if _, err := mq.DSN(); err != nil {
		return MQ{}, err
	}

	return mq, nil
}

// Load reads the process environment once. The result is passed explicitly
// into every constructor; nothing reads the environment afterwards.
func Load() (Config, error) {
	staticMaxAge, err := getDuration("APP_STATIC_MAX_AGE", time.Hour)
	if err != nil {
		return Config{}, err
	}
	presignTTL, err := getDuration("S3_PRESIGN_TTL", 0)
	if err != nil {
		return Config{}, err
	}

	app := APP{
		Name:          getEnv("SERVICE_NAME", "uploadurlapi"),
		Host:          getEnv("SERVICE_HOST", ""),
		Port:          getEnv("SERVICE_PORT", "5500"),
		Env:           getEnv("SERVICE_ENV", ""),
		PublicDir:     getEnv("APP_PUBLIC_DIR", "public"),
		ViewsDir:      getEnv("APP_VIEWS_DIR", "views"),
		StaticMaxAge:  staticMaxAge,
		LandingKey:    getEnv("APP_API_KEY", ""),
		LandingSecret: getEnv("APP_API_SECRET", ""),
	}
	s3 := S3{
		Provider:        strings.ToLower(getEnv("S3_PROVIDER", ProviderAWS)),
		Region:          getEnv("S3_REGION", "ap-south-1"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", "image-test-bucket1"),
		EndpointURL:     getEnv("S3_ENDPOINT_URL", ""),
		PresignTTL:      presignTTL,
	}
	mq := loadMQ()

	cfg := Config{
		App: app,
		S3:  s3,
		MQ:  mq,
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Port == "" {
		errs = append(errs, errors.New("SERVICE_PORT is required"))
	}
	switch c.S3.Provider {
	case ProviderAWS:
	case ProviderMinio:
		if c.S3.EndpointURL == "" {
			errs = append(errs, errors.New("S3_ENDPOINT_URL is required for the minio provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown S3_PROVIDER %q", c.S3.Provider))
	}
	if c.S3.BucketUploads == "" {
		errs = append(errs, errors.New("S3_BUCKET_UPLOADS is required"))
	}
	if c.S3.Region == "" {
		errs = append(errs, errors.New("S3_REGION is required"))
	}

	return errors.Join(errs...)
}

// EventsEnabled reports whether upload events should be published.
func (c Config) EventsEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) { return c.MQ.DSN() }

func (m MQ) DSN() (string, error) {
	if m.User == "" || m.Host == "" || m.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(m.User, m.Password).String(),
		m.Host,
		m.AmqpPort,
		url.PathEscape(m.Vhost),
	), nil
}
