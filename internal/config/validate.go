package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir must be set")
	}
	if err := oneOf("log_level", c.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := oneOf("log_format", c.LogFormat, "console", "json"); err != nil {
		return err
	}
	if err := oneOf("export.tokenization", c.Export.Tokenization, "whitespace", "word_punct"); err != nil {
		return err
	}
	if err := oneOf("export.tag_scheme", c.Export.TagScheme, "bio", "bioes"); err != nil {
		return err
	}
	return oneOf("export.textgrid_format", c.Export.TextGridFormat, "long", "short")
}

func oneOf(key, value string, allowed ...string) error {
	for _, v := range allowed {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", key, allowed, value)
}
