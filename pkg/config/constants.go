package config

const (
	// EnvPrefix scopes every environment variable consumed by the platform.
	EnvPrefix = "PASARANTAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PASARANTAR_DB_DSN"
	EnvDBHost = "PASARANTAR_DB_HOST"
	EnvDBUser = "PASARANTAR_DB_USER"
	EnvDBName = "PASARANTAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
