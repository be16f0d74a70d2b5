package logging

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	FilePath string
	Encoding string
	Level    string
	Logger   string
}

func NewDefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		FilePath: "",
		Encoding: "json",
		Level:    "info",
		Logger:   "zap",
	}
}

func NewLogger(cfg *LoggerConfig) Logger {
	var l Logger
	switch cfg.Logger {
	case "zap":
		l = newZapLogger(cfg)
	case "zerolog":
		l = newZeroLogger(cfg)
	default:
		panic("logger not supported: supported loggers: [zap, zerolog]")
	}

	l.Init()
	return l
}

// NewNop discards everything. Used by tests and tools.
func NewNop() Logger {
	l := newZapLogger(&LoggerConfig{Encoding: "json", Level: "fatal", Logger: "zap"})
	l.writer = io.Discard
	l.Init()
	return l
}

// output returns stdout, optionally teed into a rotating file under cfg.FilePath.
func output(cfg *LoggerConfig) io.Writer {
	if cfg.FilePath == "" {
		return os.Stdout
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FilePath, "burnroom.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
		LocalTime:  true,
	}

	return io.MultiWriter(os.Stdout, rotating)
}
