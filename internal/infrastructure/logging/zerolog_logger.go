package logging

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var zeroLogLevelMapping = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
}

type zeroLogger struct {
	cfg    *LoggerConfig
	writer io.Writer
	logger *zerolog.Logger
	once   sync.Once
}

func newZeroLogger(cfg *LoggerConfig) *zeroLogger {
	return &zeroLogger{cfg: cfg, writer: output(cfg)}
}

func (l *zeroLogger) getLogLevel() zerolog.Level {
	level, exists := zeroLogLevelMapping[l.cfg.Level]
	if !exists {
		return zerolog.DebugLevel
	}
	return level
}

func (l *zeroLogger) Init() {
	l.once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339

		w := l.writer
		if l.cfg.Encoding == "console" {
			w = zerolog.ConsoleWriter{Out: l.writer, TimeFormat: time.RFC3339}
		}

		logger := zerolog.New(w).
			Level(l.getLogLevel()).
			With().
			Timestamp().
			Str(string(AppName), "burnroom").
			Str(string(LoggerName), "zerolog").
			Logger()

		l.logger = &logger
	})
}

func (l *zeroLogger) event(e *zerolog.Event, cat Category, sub SubCategory, extra map[ExtraKey]any) *zerolog.Event {
	return e.Str("Category", string(cat)).
		Str("SubCategory", string(sub)).
		Fields(extraPairs(extra))
}

func (l *zeroLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Debug(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Debugf(template string, args ...any) {
	l.logger.Debug().Msgf(template, args...)
}

func (l *zeroLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Info(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Infof(template string, args ...any) {
	l.logger.Info().Msgf(template, args...)
}

func (l *zeroLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Warn(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Warnf(template string, args ...any) {
	l.logger.Warn().Msgf(template, args...)
}

func (l *zeroLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Error(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Errorf(template string, args ...any) {
	l.logger.Error().Msgf(template, args...)
}

func (l *zeroLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Fatal(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Fatalf(template string, args ...any) {
	l.logger.Fatal().Msgf(template, args...)
}

func (l *zeroLogger) Sync() error {
	return nil
}
