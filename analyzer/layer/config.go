package layer

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultShared is the reserved slice importable from every other slice
	DefaultShared = "shared"
	// DefaultEntryPoint is the public api module of a slice
	DefaultEntryPoint = "api"
	// PortsComponent marks a ports sub-namespace at any depth
	PortsComponent = "ports"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	dottedPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Config represents usecases slice conventions
type Config struct {
	Shared      string            `yaml:"shared" json:"shared"`
	EntryPoint  string            `yaml:"entryPoint" json:"entryPoint"`
	EntryPoints map[string]string `yaml:"entryPoints,omitempty" json:"entryPoints,omitempty"`
}

// DefaultConfig returns default slice conventions
func DefaultConfig() *Config {
	return &Config{Shared: DefaultShared, EntryPoint: DefaultEntryPoint}
}

// Validate checks slice conventions
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Shared, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&c.EntryPoint, validation.Required, validation.Match(dottedPattern)),
	)
	if err != nil {
		return err
	}
	for slice, entryPoint := range c.EntryPoints {
		if err := validation.Validate(slice, validation.Required, validation.Match(identifierPattern)); err != nil {
			return validation.Errors{"entryPoints": err}
		}
		if err := validation.Validate(entryPoint, validation.Required, validation.Match(dottedPattern)); err != nil {
			return validation.Errors{"entryPoints." + slice: err}
		}
	}
	return nil
}

// SliceEntryPoint returns the public api module of the slice
func (c *Config) SliceEntryPoint(slice string) string {
	if entryPoint, ok := c.EntryPoints[slice]; ok {
		return entryPoint
	}
	return c.EntryPoint
}
