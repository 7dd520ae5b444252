package cli

import (
	"flag"
	"os"
	"time"
)

// Config holds settings for the terminal client.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	HistoryLimit   int
	Debug          bool
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.HistoryLimit = 100
}

// LoadConfig applies defaults, then TRIPMATE_SERVER_URL, then flags.
// Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v := os.Getenv("TRIPMATE_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}

	fs := flag.NewFlagSet("tripmate-chat", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the tripmate server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "timeout for a single API request")
	fs.IntVar(&cfg.HistoryLimit, "n", cfg.HistoryLimit, "messages loaded when a chat is opened")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
