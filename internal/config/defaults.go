package config

// Default returns the built-in configuration values used before a config file
// is applied.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/quill",
			LogDir:  "~/.local/share/quill/logs",
			APIBind: "127.0.0.1:7130",
		},
		LLM: LLM{
			BaseURL:        "https://api.openai.com/v1",
			DraftModel:     "gpt-4o-mini",
			TimeoutSeconds: 60,
		},
		Worker: Worker{
			PollInterval:       30,
			ErrorRetryInterval: 10,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Completed:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
