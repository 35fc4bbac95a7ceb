package core

import (
	"os"

	"github.com/ndn-go/forwarder/std/log"
)

// Log is the forwarder's process-wide structured logger. Call
// ApplyLogLevel once Config is loaded to honor its configured level.
var Log = log.New(os.Stderr, log.LevelInfo)

// ApplyLogLevel sets Log's minimum level from the config's LogLevel
// string, falling back to INFO (and logging a warning) if unparseable.
func ApplyLogLevel(c *Config) {
	level, err := log.ParseLevel(c.Core.LogLevel)
	if err != nil {
		Log.Warn("core", "invalid log level, defaulting to INFO", "value", c.Core.LogLevel)
		level = log.LevelInfo
	}
	Log.SetLevel(level)
}
