package config

const (
	EnvPrefix = "TREADSTOCK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "TREADSTOCK_APP_ENV"
	EnvPort   = "TREADSTOCK_APP_PORT"

	EnvDBDSN  = "TREADSTOCK_DB_DSN"
	EnvDBHost = "TREADSTOCK_DB_HOST"
	EnvDBUser = "TREADSTOCK_DB_USER"
	EnvDBName = "TREADSTOCK_DB_NAME"

	EnvRedisURL = "TREADSTOCK_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
