package config

const (
	EnvPrefix = "SAUCEPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "SAUCEPOS_APP_ENV"
	EnvPort           = "SAUCEPOS_APP_PORT"
	EnvLogLevel       = "SAUCEPOS_LOG_LEVEL"
	EnvDBDSN          = "SAUCEPOS_DB_DSN"
	EnvDBDriver       = "SAUCEPOS_DB_DRIVER"
	EnvDBHost         = "SAUCEPOS_DB_HOST"
	EnvDBUser         = "SAUCEPOS_DB_USER"
	EnvDBPassword     = "SAUCEPOS_DB_PASSWORD"
	EnvDBName         = "SAUCEPOS_DB_NAME"
	EnvRedisURL       = "SAUCEPOS_REDIS_URL"
	EnvReportTimezone = "SAUCEPOS_REPORT_TIMEZONE"
	EnvUseSQLite      = "SAUCEPOS_USE_SQLITE"
	EnvAutoMigrate    = "SAUCEPOS_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
