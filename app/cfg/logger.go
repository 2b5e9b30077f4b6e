package cfg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 64
	logMaxBackups = 3
	logMaxAgeDays = 7
)

// SetupLogger installs the default slog logger. Logs go to stderr and, when
// LogFile is set, to a size-rotated file as well. The returned closer
// releases the file.
func SetupLogger(c *Cfg) (io.Closer, error) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}

	var output io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		fileWriter := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		output = io.MultiWriter(os.Stderr, fileWriter)
		closer = fileWriter
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})))

	return closer, nil
}
