package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeReview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
	if c.API.PageSize <= 0 {
		c.API.PageSize = defaultPageSize
	}
}

func (c *Config) normalizeReview() {
	c.Review.Surface = strings.ToLower(strings.TrimSpace(c.Review.Surface))
	if c.Review.Surface == "" {
		c.Review.Surface = defaultSurface
	}
	sites := make([]string, 0, len(c.Review.SiteIDs))
	for _, site := range c.Review.SiteIDs {
		if site = strings.TrimSpace(site); site != "" {
			sites = append(sites, site)
		}
	}
	c.Review.SiteIDs = sites
	if c.Review.PollIntervalSeconds <= 0 {
		c.Review.PollIntervalSeconds = defaultPollInterval
	}
	if c.Review.IdlePollIntervalSeconds <= 0 {
		c.Review.IdlePollIntervalSeconds = defaultIdlePollInterval
	}
	if c.Review.AuditWindowMarginMins <= 0 {
		c.Review.AuditWindowMarginMins = defaultAuditWindowMargin
	}
	if c.Review.AuditEntryLimit <= 0 {
		c.Review.AuditEntryLimit = defaultAuditEntryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
