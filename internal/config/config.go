package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	JWT        JWT        `yaml:"jwt"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	Redis      Redis      `yaml:"redis"`
	FCM        FCM        `yaml:"fcm"`
	SendGrid   SendGrid   `yaml:"sendgrid"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	CORS       CORS       `yaml:"cors"`
	Scheduler  Scheduler  `yaml:"scheduler"`
}

type Minio struct {
	Endpoint  string                  `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	AccessKey string                  `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string                  `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool                    `yaml:"use_ssl"`
	Buckets   map[string]BucketConfig `yaml:"buckets"`
}

type BucketConfig struct {
	Name       string        `yaml:"name"`
	PresignTTL time.Duration `yaml:"presign_ttl" env-default:"1h"`
}

// Bucket returns the named bucket or a default with the same name.
func (m Minio) Bucket(name string) BucketConfig {
	if bc, ok := m.Buckets[name]; ok {
		if bc.Name == "" {
			bc.Name = name
		}
		if bc.PresignTTL == 0 {
			bc.PresignTTL = time.Hour
		}
		return bc
	}
	return BucketConfig{Name: name, PresignTTL: time.Hour}
}

type ES struct {
	Hosts    []string `yaml:"hosts" env-default:"http://localhost:9200"`
	Index    string   `yaml:"index" env-default:"knowledge"`
	Password string   `yaml:"password" env:"ES_PASSWORD"`
}

type JWT struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer     string        `yaml:"issuer" env-default:"knowledge"`
	AccessTTL  time.Duration `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_token_ttl" env-default:"720h"`
}

type Postgres struct {
	Host        string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port        string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User        string `yaml:"user" env:"POSTGRES_USER"`
	Password    string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName      string `yaml:"dbname" env:"POSTGRES_DB"`
	SSLMode     string `yaml:"sslmode" env-default:"disable"`
	AutoMigrate bool   `yaml:"auto_migrate" env-default:"true"`
}

func (p Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type FCM struct {
	ServerKey string        `yaml:"server_key" env:"FIREBASE_SERVER_KEY"`
	URL       string        `yaml:"url" env-default:"https://fcm.googleapis.com/fcm/send"`
	Topic     string        `yaml:"topic" env-default:"otd_updates"`
	Timeout   time.Duration `yaml:"timeout" env-default:"5s"`
}

type SendGrid struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromName  string `yaml:"from_name" env-default:"Knowledge"`
	FromEmail string `yaml:"from_email" env-default:"noreply@knowledge.app"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allow_origins" env-default:"http://localhost:5173"`
}

type Scheduler struct {
	RetentionSweep string `yaml:"retention_sweep" env-default:"0 3 * * *"`
	OTPCleanup     string `yaml:"otp_cleanup" env-default:"*/30 * * * *"`
	OnThisDayPush  string `yaml:"otd_push" env-default:"0 9 * * *"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("can not read .env file: %w", err)
	}

	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}
