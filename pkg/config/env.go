package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"
	EnvDBDSN        = "STOREFRONT_DB_DSN"
	EnvDBHost       = "STOREFRONT_DB_HOST"
	EnvDBPort       = "STOREFRONT_DB_PORT"
	EnvDBUser       = "STOREFRONT_DB_USER"
	EnvDBPassword   = "STOREFRONT_DB_PASSWORD"
	EnvDBName       = "STOREFRONT_DB_NAME"
	EnvUseSQLite    = "STOREFRONT_USE_SQLITE"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvJWTSecret    = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer    = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins   = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvCartCacheTTL = "STOREFRONT_CART_CACHE_TTL"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
