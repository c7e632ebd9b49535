package config

const (
	// EnvPrefix is the envconfig prefix shared by every variable.
	EnvPrefix = "SMARTLMS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SMARTLMS_DB_DSN"
	EnvDBHost = "SMARTLMS_DB_HOST"
	EnvDBUser = "SMARTLMS_DB_USER"
	EnvDBName = "SMARTLMS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
