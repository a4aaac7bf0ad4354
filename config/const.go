package config

const (
	FlagConfigPath         = "config-path"
	FlagConfigType         = "config-type"
	FlagConfigAwsRegion    = "aws-region"
	FlagConfigAwsSecretKey = "aws-secret-key"
	FlagConfigPrivateKey   = "private-key"
	FlagConfigDbPass       = "db-pass"

	LocalConfig = "local"
	AWSConfig   = "aws"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"

	EnvVarConfigFilePath = "CONFIG_FILE_PATH"
	EnvVarConfigType     = "CONFIG_TYPE"
	EnvVarDBUserPass     = "DB_PASSWORD"
	EnvVarPrivateKey     = "PRIVATE_KEY"

	DefaultCacheSize         = 1024
	DefaultEnrichTimeoutSec  = 30  // content-store and classifier calls resolve to defaults past this
	DefaultConfirmTimeoutSec = 240 // ledger confirmation latency bound
)
