package main

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	audit2pdf "github.com/alnah/go-audit2pdf"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and exporter pool construction.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	NewLogger func(level zapcore.Level) *zap.Logger
	NewPool   func(size int, opts ...audit2pdf.Option) Pool
}

// DefaultEnv returns the production environment: real Chrome exporters and a
// console logger on stderr.
func DefaultEnv() *Environment {
	env := &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPool: func(size int, opts ...audit2pdf.Option) Pool {
			return &poolAdapter{pool: audit2pdf.NewExporterPool(size, opts...)}
		},
	}
	env.NewLogger = func(level zapcore.Level) *zap.Logger {
		return consoleLogger(env.Stderr, level)
	}
	return env
}

// consoleLogger builds a human-readable zap logger writing to w.
func consoleLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}
