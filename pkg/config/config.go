package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Cloudinary   CloudinaryConfig
	Uploads      UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Cloudinary.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                    string   `envconfig:"SCHOOLCMS_APP_ENV" required:"true"`
	Port                   string   `envconfig:"SCHOOLCMS_APP_PORT" default:"8080"`
	LogLevel               string   `envconfig:"SCHOOLCMS_LOG_LEVEL" default:"info"`
	LogFormat              string   `envconfig:"SCHOOLCMS_LOG_FORMAT" default:"json"`
	LogWarnStack           bool     `envconfig:"SCHOOLCMS_LOG_WARN_STACK" default:"false"`
	ExposeInternalErrors   bool     `envconfig:"SCHOOLCMS_EXPOSE_INTERNAL_ERRORS" default:"true"`
	CORSOrigins            []string `envconfig:"SCHOOLCMS_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeoutSeconds int      `envconfig:"SCHOOLCMS_SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ShutdownTimeout is the grace period given to in-flight requests on exit.
func (a AppConfig) ShutdownTimeout() time.Duration {
	if a.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.ShutdownTimeoutSeconds) * time.Second
}

type DBConfig struct {
	DSN    string `envconfig:"SCHOOLCMS_DB_DSN"`
	Driver string `envconfig:"SCHOOLCMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCHOOLCMS_DB_HOST"`
	LegacyPort     int    `envconfig:"SCHOOLCMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCHOOLCMS_DB_USER"`
	LegacyPassword string `envconfig:"SCHOOLCMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCHOOLCMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCHOOLCMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCHOOLCMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCHOOLCMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCHOOLCMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHOOLCMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. Without a URL or address the API runs without
// idempotent replay.
type RedisConfig struct {
	URL            string        `envconfig:"SCHOOLCMS_REDIS_URL"`
	Address        string        `envconfig:"SCHOOLCMS_REDIS_ADDR"`
	Password       string        `envconfig:"SCHOOLCMS_REDIS_PASSWORD"`
	DB             int           `envconfig:"SCHOOLCMS_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"SCHOOLCMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"SCHOOLCMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"SCHOOLCMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"SCHOOLCMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"SCHOOLCMS_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"SCHOOLCMS_IDEMPOTENCY_TTL" default:"24h"`
	Namespace      string        `envconfig:"SCHOOLCMS_REDIS_NAMESPACE" default:"schoolcms"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SCHOOLCMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SCHOOLCMS_JWT_ISSUER" default:"school-cms"`
	ExpirationMinutes int    `envconfig:"SCHOOLCMS_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SCHOOLCMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SCHOOLCMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SCHOOLCMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SCHOOLCMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SCHOOLCMS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"SCHOOLCMS_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"SCHOOLCMS_SQLITE_PATH" default:"schoolcms.db"`
	AutoMigrate bool   `envconfig:"SCHOOLCMS_AUTO_MIGRATE" default:"false"`
	Idempotency bool   `envconfig:"SCHOOLCMS_IDEMPOTENCY" default:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SCHOOLCMS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SCHOOLCMS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SCHOOLCMS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"SCHOOLCMS_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"SCHOOLCMS_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	APIBaseURL    string `envconfig:"SCHOOLCMS_GCS_API_BASE_URL" default:"https://storage.googleapis.com"`
	// Anonymous skips token acquisition, for emulators such as fake-gcs-server.
	Anonymous bool `envconfig:"SCHOOLCMS_GCS_ANONYMOUS" default:"false"`
}

type CloudinaryConfig struct {
	URL       string `envconfig:"SCHOOLCMS_CLOUDINARY_URL"`
	CloudName string `envconfig:"SCHOOLCMS_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"SCHOOLCMS_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"SCHOOLCMS_CLOUDINARY_API_SECRET"`
	Folder    string `envconfig:"SCHOOLCMS_CLOUDINARY_FOLDER" default:"school"`
}

func (c CloudinaryConfig) validate() error {
	if strings.TrimSpace(c.URL) != "" {
		return nil
	}
	missing := []string{}
	if c.CloudName == "" {
		missing = append(missing, EnvCloudinaryCloudName)
	}
	if c.APIKey == "" {
		missing = append(missing, EnvCloudinaryAPIKey)
	}
	if c.APISecret == "" {
		missing = append(missing, EnvCloudinaryAPISecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvCloudinaryURL, strings.Join(missing, ", "))
	}
	return nil
}

type UploadsConfig struct {
	MaxRequestMB int `envconfig:"SCHOOLCMS_UPLOAD_MAX_REQUEST_MB" default:"50"`
	MaxFileMB    int `envconfig:"SCHOOLCMS_UPLOAD_MAX_FILE_MB" default:"10"`
	MaxImageMB   int `envconfig:"SCHOOLCMS_UPLOAD_MAX_IMAGE_MB" default:"5"`
}

func (u UploadsConfig) MaxRequestBytes() int64 { return megabytes(u.MaxRequestMB, 50) }
func (u UploadsConfig) MaxFileBytes() int64    { return megabytes(u.MaxFileMB, 10) }
func (u UploadsConfig) MaxImageBytes() int64   { return megabytes(u.MaxImageMB, 5) }

func megabytes(value, fallback int) int64 {
	if value <= 0 {
		value = fallback
	}
	return int64(value) << 20
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
