// Package log 在标准库 slog 之上提供一个精简的日志接口和可配置的构造器
package log

import (
	"sync/atomic"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With 返回附带固定字段的日志器
	With(args ...any) Logger
}

var defaultLogger atomic.Pointer[SLog]

func init() {
	logger, err := NewSLogWithOptions(&SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger.Store(logger)
}

// Default 返回进程级默认日志器
func Default() Logger {
	return defaultLogger.Load()
}

// SetDefault 替换进程级默认日志器
func SetDefault(logger *SLog) {
	defaultLogger.Store(logger)
}
