package config

const (
	EnvPrefix = "MANDLIMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "MANDLIMART_APP_ENV"
	EnvPort                   = "MANDLIMART_APP_PORT"
	EnvDBDSN                  = "MANDLIMART_DB_DSN"
	EnvDBHost                 = "MANDLIMART_DB_HOST"
	EnvDBUser                 = "MANDLIMART_DB_USER"
	EnvDBName                 = "MANDLIMART_DB_NAME"
	EnvDBPassword             = "MANDLIMART_DB_PASSWORD"
	EnvRedisURL               = "MANDLIMART_REDIS_URL"
	EnvJWTSecret              = "MANDLIMART_JWT_SECRET"
	EnvJWTIssuer              = "MANDLIMART_JWT_ISSUER"
	EnvJWTExpMins             = "MANDLIMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MANDLIMART_REFRESH_TOKEN_TTL_MINUTES"
	EnvProfileMaxImageBytes   = "MANDLIMART_PROFILE_MAX_IMAGE_BYTES"
	EnvCheckoutCleanupGrace   = "MANDLIMART_CHECKOUT_CLEANUP_GRACE"
	EnvRequireKnownLocation   = "MANDLIMART_REQUIRE_KNOWN_LOCATION"
)

// legacyDBEnvVars are the discrete connection settings accepted when no DSN is supplied.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
