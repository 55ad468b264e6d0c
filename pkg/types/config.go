package types

// Config holds the store location and logging parameters loaded from
// config.yaml or flags.
type Config struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Normalize fills unset fields with defaults.
func (c Config) Normalize() Config {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
