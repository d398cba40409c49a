package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config locates log files and sets the minimum level.
type Config struct {
	Dir   string
	Level string
	// Console mirrors every entry to stdout.
	Console bool
}

func (c Config) dir() string {
	if d := strings.TrimSpace(c.Dir); d != "" {
		return d
	}
	return "log"
}

func (c Config) level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(c.Level))
	if err != nil || c.Level == "" {
		return zap.InfoLevel
	}
	return lvl
}

// NewLog writes JSON entries to <dir>/<name>, rotated by lumberjack, and to
// stdout when Console is set.
func NewLog(cfg Config, name string) *zap.Logger {
	dir := cfg.dir()
	_ = os.MkdirAll(dir, 0o755)

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "dateTime"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	lvl := cfg.level()
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, lvl)}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), lvl))
	}
	return zap.New(zapcore.NewTee(cores...))
}
