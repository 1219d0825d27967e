package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if c.Paths.LogDir == "" {
		return errors.New("config: log_dir is required")
	}
	if c.Paths.APIBind == "" {
		return errors.New("config: api_bind is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("config: llm base_url is required")
	}
	if c.LLM.DraftModel == "" {
		return errors.New("config: llm draft_model is required")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: llm timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("config: worker poll_interval must be positive, got %d", c.Worker.PollInterval)
	}
	if c.Worker.ErrorRetryInterval <= 0 {
		return fmt.Errorf("config: worker error_retry_interval must be positive, got %d", c.Worker.ErrorRetryInterval)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
