package logger

import "go.uber.org/zap"

// Field aliases so callers don't import zap directly.

func String(key, val string) zap.Field { return zap.String(key, val) }

func Int(key string, val int) zap.Field { return zap.Int(key, val) }

func Bool(key string, val bool) zap.Field { return zap.Bool(key, val) }

func Any(key string, val any) zap.Field { return zap.Any(key, val) }

func Err(err error) zap.Field { return zap.Error(err) }
