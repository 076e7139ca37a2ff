package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "STASHLINE"

// Canonical environment names referenced by AppConfig helpers.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced in error messages and tests.
const (
	EnvAppEnv     = "STASHLINE_APP_ENV"
	EnvPort       = "STASHLINE_APP_PORT"
	EnvDBDSN      = "STASHLINE_DB_DSN"
	EnvDBHost     = "STASHLINE_DB_HOST"
	EnvDBUser     = "STASHLINE_DB_USER"
	EnvDBName     = "STASHLINE_DB_NAME"
	EnvRedisURL   = "STASHLINE_REDIS_URL"
	EnvJWTSecret  = "STASHLINE_JWT_SECRET"
	EnvJWTIssuer  = "STASHLINE_JWT_ISSUER"
	EnvJWTExpMins = "STASHLINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
