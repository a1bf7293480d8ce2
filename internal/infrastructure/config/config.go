package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=3000"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	StaticDir      string        `env:"STATIC_DIR,       default=public"`
	ImageListDelay time.Duration `env:"IMAGE_LIST_DELAY, default=0s"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type MongoConfig struct {
	URI                 string        `env:"MONGO_URI"`
	User                string        `env:"MONGO_USER"`
	Password            string        `env:"MONGO_PWD"`
	Cluster             string        `env:"MONGO_CLUSTER"`
	Database            string        `env:"DB_NAME,                default=gallery"`
	ImagesCollection    string        `env:"IMAGES_COLLECTION_NAME, default=images"`
	UsersCollection     string        `env:"USERS_COLLECTION_NAME,  default=users"`
	CredsCollection     string        `env:"CREDS_COLLECTION_NAME,  default=userCreds"`
	Timeout             time.Duration `env:"MONGO_TIMEOUT,          default=10s"`
	ConnectRetries      int           `env:"MONGO_CONNECT_RETRIES,  default=5"`
	ConnectRetryBackoff time.Duration `env:"MONGO_RETRY_BACKOFF,    default=2s"`
}

// ConnectionURI returns MONGO_URI when set, otherwise an Atlas SRV URI built
// from the user, password and cluster parts, falling back to localhost.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	if m.Cluster == "" {
		return "mongodb://localhost:27017"
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     m.Cluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	if m.User != "" {
		u.User = url.UserPassword(m.User, m.Password)
	}
	return u.String()
}

// RedisConfig is optional; an empty Addr disables name reservation.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type StorageConfig struct {
	Backend   string `env:"STORAGE_BACKEND,  default=disk"`
	UploadDir string `env:"IMAGE_UPLOAD_DIR, default=uploads"`

	MinIO MinIOConfig
	S3    S3Config
	GCS   GCSConfig
}

type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET,     default=gallery"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

type S3Config struct {
	Region       string `env:"S3_REGION,          default=us-east-1"`
	Bucket       string `env:"S3_BUCKET"`
	Endpoint     string `env:"S3_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE,  default=false"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	Endpoint        string `env:"GCS_ENDPOINT"`
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads configuration from the environment using go-envconfig. A .env
// file in the working directory is applied first when present; variables
// already set in the environment win.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that cannot be expressed as struct tag defaults.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	switch c.Storage.Backend {
	case "disk", "minio", "s3", "gcs":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "s3" && c.Storage.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required for the s3 backend")
	}
	if c.Storage.Backend == "gcs" && c.Storage.GCS.Bucket == "" {
		return errors.New("GCS_BUCKET is required for the gcs backend")
	}
	if c.Mongo.ConnectRetries < 1 {
		c.Mongo.ConnectRetries = 1
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }
