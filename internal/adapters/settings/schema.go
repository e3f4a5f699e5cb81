package settings

// File is the on-disk shape of the settings file.
// Pointer fields distinguish "absent" from a zero value.
type File struct {
	LogFormat       *string  `yaml:"log_format"`
	Verbose         *bool    `yaml:"verbose"`
	MaxConcurrency  *int     `yaml:"max_concurrency"`
	Debounce        *string  `yaml:"debounce"`
	IgnoreDirs      []string `yaml:"ignore_dirs"`
	ConfigCacheSize *int     `yaml:"config_cache_size"`
}
