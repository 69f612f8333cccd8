package di

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/config"
)

// LoggerService wraps the zerolog logger for DI.
type LoggerService struct {
	Logger *zerolog.Logger
}

// newZerologLogger builds a zerolog.Logger from cfg, selecting an output
// file by name (stdout/stderr or a path) and deciding console-vs-JSON
// rendering the same way cc-relay's proxy.NewLogger does: an explicit
// Pretty flag or Format: pretty/console always wins, Format: json always
// stays structured, and anything else auto-detects based on whether the
// output is an interactive terminal.
func newZerologLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	var out *os.File
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, err
		}
		out = f
	}

	var writer io.Writer = out
	if shouldUsePretty(cfg, out) {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(writer).Level(cfg.ParseLevel()).With().Timestamp().Logger()
	return logger, nil
}

// shouldUsePretty decides whether to wrap out in a zerolog.ConsoleWriter.
func shouldUsePretty(cfg config.LoggingConfig, out *os.File) bool {
	if cfg.Pretty {
		return true
	}

	switch cfg.Format {
	case "pretty", "console", "text":
		return true
	case "json":
		return false
	default:
		return out != nil && isatty.IsTerminal(out.Fd())
	}
}

// NewLogger creates the zerolog logger from configuration.
func NewLogger(i do.Injector) (*LoggerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)

	logger, err := newZerologLogger(cfgSvc.Config.Logging)
	if err != nil {
		return nil, err
	}

	return &LoggerService{Logger: &logger}, nil
}
