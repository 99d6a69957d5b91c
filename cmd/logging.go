package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger returns a stderr logger at the level given by --log-level
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}
