// Package shared holds process setup used by every deepstacks command.
package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var levelColors = map[log.Level]string{
	log.DebugLevel: "63",
	log.InfoLevel:  "86",
	log.WarnLevel:  "192",
	log.ErrorLevel: "204",
	log.FatalLevel: "134",
}

// SetupLogger builds the process logger writing to stderr. format is text,
// json or logfmt.
func SetupLogger(level, format string) (*log.Logger, error) {
	return NewLogger(os.Stderr, level, format)
}

// NewLogger is SetupLogger for an arbitrary writer.
func NewLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var formatter log.Formatter
	switch format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	if termenv.EnvNoColor() {
		logger.SetColorProfile(termenv.Ascii)
	}

	styles := log.DefaultStyles()
	for l, color := range levelColors {
		styles.Levels[l] = lipgloss.NewStyle().
			SetString(levelLabel(l)).
			Bold(true).
			MaxWidth(4).
			Foreground(lipgloss.Color(color))
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	logger.SetStyles(styles)
	return logger, nil
}

func levelLabel(l log.Level) string {
	switch l {
	case log.DebugLevel:
		return "DEBU"
	case log.InfoLevel:
		return "INFO"
	case log.WarnLevel:
		return "WARN"
	case log.ErrorLevel:
		return "ERRO"
	default:
		return "FATA"
	}
}
