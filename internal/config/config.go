package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ndrandal/price-simulator/internal/market"
)

// Config holds all simulator configuration.
type Config struct {
	// Server
	Port int
	Host string

	// Simulation
	Seed         int64
	InitialPrice float64
	HistoryLimit int

	// Feed
	SendBufferSize int

	// Presentation
	Lang     string
	DebugLog string // terminal front-end log file, empty = no logging
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadEnvFile loads variables from an env file into the process
// environment. Variables that are already set win over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the optional env file, then parses the command line with
// environment defaults.
func Load() (*Config, error) {
	path := envStr("PRICESIM_ENV_FILE", ".env")
	if err := LoadEnvFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return Parse(flag.CommandLine, os.Args[1:])
}

// Parse registers the simulator flags on fs, parses args and validates the result.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := &Config{}

	fs.IntVar(&c.Port, "port", envInt("PRICESIM_PORT", 8200), "HTTP/WebSocket server port")
	fs.StringVar(&c.Host, "host", envStr("PRICESIM_HOST", "0.0.0.0"), "Listen host")

	fs.Int64Var(&c.Seed, "seed", envInt64("PRICESIM_SEED", 0), "PRNG seed for event selection (0 = random)")
	fs.Float64Var(&c.InitialPrice, "price", envFloat("PRICESIM_PRICE", market.DefaultPrice), "Starting price")
	fs.IntVar(&c.HistoryLimit, "history", envInt("PRICESIM_HISTORY", 100), "Applied events kept in history")

	fs.IntVar(&c.SendBufferSize, "send-buffer", envInt("PRICESIM_SEND_BUFFER", 256), "Per-client send buffer size")

	fs.StringVar(&c.Lang, "lang", envStr("PRICESIM_LANG", "en-US"), "Language tag for number formatting")
	fs.StringVar(&c.DebugLog, "debug-log", envStr("PRICESIM_DEBUG", ""), "Terminal front-end debug log file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("port %d out of range", c.Port)
	case !market.PriceInRange(c.InitialPrice):
		return fmt.Errorf("price %g must be between %g and %g", c.InitialPrice, market.PriceMin, market.PriceMax)
	case c.HistoryLimit < 1:
		return fmt.Errorf("history must be positive, got %d", c.HistoryLimit)
	case c.SendBufferSize < 1:
		return fmt.Errorf("send-buffer must be positive, got %d", c.SendBufferSize)
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
