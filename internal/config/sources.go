package config

import (
	"github.com/spf13/viper"
)

// loadSourcesFile overlays per-category settings from a YAML/TOML/JSON file. Keys absent from
// the file keep the values already resolved from the environment.
func (c *Config) loadSourcesFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	sources := c.Sources
	if err := v.UnmarshalKey("sources", &sources); err != nil {
		return err
	}
	c.Sources = sources
	return nil
}
