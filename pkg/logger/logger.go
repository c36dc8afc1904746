package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger
var sugar *zap.SugaredLogger

// New builds a logger tagged with service. env "dev" gets a colored console encoder,
// every other env JSON with ISO8601 timestamps. An unparseable level keeps the
// env's default.
func New(service, env, level string) (*zap.Logger, error) {
	cfg := configFor(env)
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCaller(), zap.Fields(zap.String("service", service)))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func configFor(env string) zap.Config {
	if env == "dev" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.OutputPaths = []string{"stdout"}
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	return cfg
}

// Init installs the process-wide logger returned by L and S. It panics if the
// logger cannot be built.
func Init(service, env, level string) {
	l, err := New(service, env, level)
	if err != nil {
		panic(err)
	}
	log, sugar = l, l.Sugar()
	sugar.Infow("logger initialized", "env", env, "level", level)
}

// L returns the process-wide logger, initializing a dev logger on first use.
func L() *zap.Logger {
	if log == nil {
		Init("unknown", "dev", "info")
	}
	return log
}

// S is the sugared form of L.
func S() *zap.SugaredLogger {
	L()
	return sugar
}

// Named returns a child of L scoped to a component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered entries; defer it in main.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
