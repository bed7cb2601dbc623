package repository

// CacheRepository is a best-effort key/value cache for simulation results.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
