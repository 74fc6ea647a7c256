package config

import (
	"errors"
	"fmt"
	"net/url"
)

// maxPageSize bounds the queue page to keep a single fetch responsive.
const maxPageSize = 200

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/plateview/config.toml"
		}
		return fmt.Errorf("api.base_url is required. Set PLATEVIEW_API_BASE_URL or edit %s (create with 'plateview config init')", defaultPath)
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.PageSize > maxPageSize {
		return fmt.Errorf("api.page_size must be at most %d", maxPageSize)
	}
	return nil
}

func (c *Config) validateReview() error {
	switch c.Review.Surface {
	case "decisions", "plates":
	default:
		return fmt.Errorf("review.surface %q must be \"decisions\" or \"plates\"", c.Review.Surface)
	}
	if c.Review.IdlePollIntervalSeconds < c.Review.PollIntervalSeconds {
		return errors.New("review.idle_poll_interval_seconds must not be below review.poll_interval_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be \"console\" or \"json\"", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
