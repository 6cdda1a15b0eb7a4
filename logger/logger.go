package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"learnhub/config"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger from configuration. The returned
// instance is handed to every component that logs; nothing global is touched.
func New(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" || cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				parts := strings.Split(f.Function, ".")
				return parts[len(parts)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	var writers []io.Writer
	if cfg.LogOutput == "stdout" || cfg.LogOutput == "both" || cfg.LogOutput == "" {
		writers = append(writers, os.Stdout)
	}
	if cfg.LogOutput == "file" || cfg.LogOutput == "both" {
		if err := os.MkdirAll(cfg.LogPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogPath, "app.log"),
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))

	return log, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithRequest returns an entry carrying the request-scoped tracking fields
func WithRequest(log logrus.FieldLogger, c *fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}
	if id, ok := c.Locals("requestId").(string); ok {
		fields["requestId"] = id
	}
	if id, ok := c.Locals("sessionId").(string); ok {
		fields["sessionId"] = id
	}
	if id, ok := c.Locals("userId").(string); ok {
		fields["userId"] = id
	}
	return log.WithFields(fields)
}
