package info

// Config controls source discovery
type Config struct {
	Extensions  []string `yaml:"extensions"`            // File extensions treated as modules
	Exclusions  []string `yaml:"exclusions"`            // Doublestar patterns matched against relative slash paths
	RootPackage string   `yaml:"rootPackage,omitempty"` // Top-level package name of the source root, defaults to its base name
	// StrictRootPackage treats unprefixed layer imports as external when a root package is known
	StrictRootPackage bool `yaml:"strictRootPackage,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Extensions: []string{".py"},
		Exclusions: []string{
			"**/__pycache__/**",
			"**/.*/**",
			"**/*.egg-info/**",
			"**/node_modules/**",
		},
	}
}
