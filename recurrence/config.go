package recurrence

// EngineConfig holds configuration options for the expansion engine.
type EngineConfig struct {
	CacheEnabled bool
	CacheConfig  CacheConfig

	// MaxOccurrences caps how many occurrences a single range query will
	// collect; 0 falls back to the default.
	MaxOccurrences int
}

const defaultMaxOccurrences = 1000

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled:   true,
	CacheConfig:    DefaultCacheConfig,
	MaxOccurrences: defaultMaxOccurrences,
}

// DisabledCacheConfig turns off caching entirely.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled:   false,
	MaxOccurrences: defaultMaxOccurrences,
}
