// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and metrics.
package observability

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// Options configures a zap backed Logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// File, when set, receives JSON lines and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Console receives human readable lines. Defaults to stderr.
	Console io.Writer
}

// logger is the default implementation.
type logger struct {
	z *zap.Logger
}

// NewLogger creates a console logger. An unknown level falls back to info.
func NewLogger(level string) Logger {
	l, err := New(Options{Level: level})
	if err != nil {
		l, _ = New(Options{Level: "info"})
	}
	return l
}

// New creates a logger from opts.
func New(opts Options) (Logger, error) {
	lvl := zapcore.InfoLevel
	if opts.Level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, err
		}
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	core := zapcore.NewCore(encoder(false), zapcore.AddSync(console), lvl)
	if opts.File != "" {
		maxBackups := opts.MaxBackups
		// keep 10 backups if not set to avoid run out of disk space
		if maxBackups == 0 {
			maxBackups = 10
		}
		rotate := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: maxBackups,
		}
		core = zapcore.NewTee(core, zapcore.NewCore(encoder(true), zapcore.AddSync(rotate), lvl))
	}

	return &logger{z: zap.New(core, zap.AddStacktrace(zap.DPanicLevel))}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &logger{z: zap.NewNop()}
}

func encoder(jsonFormat bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	if jsonFormat {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, zapFields(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.z.Info(msg, zapFields(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, zapFields(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.z.Error(msg, zapFields(fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{z: l.z.With(zapFields(fields)...)}
}

func (l *logger) Sync() error {
	return l.z.Sync()
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
