package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix only matters for lookup of unannotated fields.
const EnvPrefix = "PHONESHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
