package config

const EnvPrefix = "WAREHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

const (
	EnvAppEnv       = "WAREHOUSE_APP_ENV"
	EnvPort         = "WAREHOUSE_APP_PORT"
	EnvLogLevel     = "WAREHOUSE_LOG_LEVEL"
	EnvLogWarnStack = "WAREHOUSE_LOG_WARN_STACK"
	EnvCORSOrigins  = "WAREHOUSE_CORS_ORIGINS"

	EnvAPIBaseURL = "WAREHOUSE_API_BASE_URL"
	EnvAPITimeout = "WAREHOUSE_API_TIMEOUT"

	EnvCacheDriver     = "WAREHOUSE_CACHE_DRIVER"
	EnvCacheStaleAfter = "WAREHOUSE_CACHE_STALE_AFTER"

	EnvRedisURL      = "WAREHOUSE_REDIS_URL"
	EnvRedisAddr     = "WAREHOUSE_REDIS_ADDR"
	EnvRedisPassword = "WAREHOUSE_REDIS_PASSWORD"
	EnvRedisDB       = "WAREHOUSE_REDIS_DB"

	EnvMetricsEnabled = "WAREHOUSE_METRICS_ENABLED"
)
