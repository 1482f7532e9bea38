package repository

// CacheRepository is a string key/value cache. Misses and backend errors both
// report ok=false on Get.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string) error
}
