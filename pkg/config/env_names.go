package config

// EnvPrefix is consumed by envconfig when binding struct tags.
const EnvPrefix = "FIXPOINT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv  = "FIXPOINT_APP_ENV"
	EnvAppPort = "FIXPOINT_APP_PORT"

	EnvDBDSN  = "FIXPOINT_DB_DSN"
	EnvDBHost = "FIXPOINT_DB_HOST"
	EnvDBUser = "FIXPOINT_DB_USER"
	EnvDBName = "FIXPOINT_DB_NAME"

	EnvRedisURL = "FIXPOINT_REDIS_URL"

	EnvGCPProjectID = "FIXPOINT_GCP_PROJECT_ID"

	EnvPubSubRecordsTopic = "FIXPOINT_PUBSUB_RECORDS_TOPIC"
	EnvPubSubRecordsSub   = "FIXPOINT_PUBSUB_RECORDS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
