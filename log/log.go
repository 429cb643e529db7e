package log

import (
	"io"
	"os"

	"github.com/MinterTeam/minter-coffee/config"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// NewLogger builds the node logger described by cfg: plain or json output to stdout or a
// file, filtered by per-module levels.
func NewLogger(cfg *config.Config) (log.Logger, error) {
	var dest io.Writer = os.Stdout

	if cfg.LogPath != "" && cfg.LogPath != "stdout" {
		file, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}

		dest = file
	}

	return newLogger(dest, cfg.LogFormat, cfg.LogLevel)
}

func newLogger(dest io.Writer, format string, level string) (log.Logger, error) {
	var l log.Logger

	switch format {
	case config.LogFormatJSON:
		l = log.NewTMJSONLogger(log.NewSyncWriter(dest))
	case config.LogFormatPlain:
		l = log.NewTMLogger(log.NewSyncWriter(dest))
	default:
		return nil, errors.Errorf("unsupported log format %q", format)
	}

	l, err := flags.ParseLogLevel(level, l, config.DefaultLogLevel())
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	return l, nil
}
