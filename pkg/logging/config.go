package logging

import "os"

// Config holds logging settings as read from the configuration file.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
}

// Env names the environment variables that may override file-provided
// logging settings. A nil Env skips environment lookup entirely.
type Env struct {
	Level  string
	Format string
}

// Finalize settles the configuration: unset fields fall back to info-level
// text output, environment overrides win over file values, and the result
// is validated.
func (c *Config) Finalize(env *Env) error {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}

	if env != nil {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = Level(v)
		}
		if v := os.Getenv(env.Format); v != "" {
			c.Format = Format(v)
		}
	}

	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}

// Merge folds non-zero overlay values into c.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}
