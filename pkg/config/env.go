package config

const (
	EnvPrefix = "SCHOOLCMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "SCHOOLCMS_APP_ENV"
	EnvPort      = "SCHOOLCMS_APP_PORT"
	EnvLogLevel  = "SCHOOLCMS_LOG_LEVEL"
	EnvLogFormat = "SCHOOLCMS_LOG_FORMAT"

	EnvDBDSN  = "SCHOOLCMS_DB_DSN"
	EnvDBHost = "SCHOOLCMS_DB_HOST"
	EnvDBUser = "SCHOOLCMS_DB_USER"
	EnvDBName = "SCHOOLCMS_DB_NAME"

	EnvUseSQLite = "SCHOOLCMS_USE_SQLITE"
	EnvRedisURL  = "SCHOOLCMS_REDIS_URL"

	EnvJWTSecret = "SCHOOLCMS_JWT_SECRET"

	EnvGCSBucket = "SCHOOLCMS_GCS_BUCKET_NAME"

	EnvCloudinaryURL       = "SCHOOLCMS_CLOUDINARY_URL"
	EnvCloudinaryCloudName = "SCHOOLCMS_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "SCHOOLCMS_CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "SCHOOLCMS_CLOUDINARY_API_SECRET"

	EnvUploadMaxFileMB = "SCHOOLCMS_UPLOAD_MAX_FILE_MB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
