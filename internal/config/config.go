package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultTimezone decides which calendar day counts as "today".
	DefaultTimezone = "Asia/Ho_Chi_Minh"

	// DefaultSweepSchedule is the cron spec of the due-date sweep. Empty disables it.
	DefaultSweepSchedule = "@every 15m"

	// DefaultRateLimit is the sustained per-user request rate (requests per second).
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the per-user burst size.
	DefaultRateBurst = 20

	// DefaultDueSoonDays is the horizon of the "due soon" statistic.
	DefaultDueSoonDays = 7

	// DefaultEnvFile is loaded before flags are parsed, if present.
	DefaultEnvFile = ".env"
)

// LoadEnv loads variables from the given dotenv files into the process
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}
	return nil
}
