package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implement Logger interface sử dụng log package
type DefaultLogger struct {
	level Level
}

// NewDefaultLogger tạo một instance mới của DefaultLogger
func NewDefaultLogger(level Level) *DefaultLogger {
	return &DefaultLogger{
		level: level,
	}
}

// Info log thông tin
func (l *DefaultLogger) Info(format string, v ...interface{}) {
	if l.level <= InfoLevel {
		log.Printf("[INFO] "+format, v...)
	}
}

// Error log lỗi
func (l *DefaultLogger) Error(format string, v ...interface{}) {
	if l.level <= ErrorLevel {
		log.Printf("[ERROR] "+format, v...)
	}
}

// Debug log debug
func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	if l.level <= DebugLevel {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// FileLogger implement Logger interface, ghi ra file logs/app-YYYY-MM-DD.log.
// Dùng cho audit trail của engine; stdout vẫn do DefaultLogger phụ trách.
type FileLogger struct {
	level       Level
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
}

// NewFileLogger tạo FileLogger mới, mở file log theo ngày hiện tại
func NewFileLogger(level Level, dir string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("2006-01-02")
	logFile, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("app-%s.log", timestamp)),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	return &FileLogger{
		level:       level,
		infoLogger:  log.New(logFile, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(logFile, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		debugLogger: log.New(logFile, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}, nil
}

// Info ghi log thông tin
func (l *FileLogger) Info(format string, v ...interface{}) {
	if l.level <= InfoLevel {
		l.infoLogger.Printf(format, v...)
	}
}

// Error ghi log lỗi
func (l *FileLogger) Error(format string, v ...interface{}) {
	if l.level <= ErrorLevel {
		l.errorLogger.Printf(format, v...)
	}
}

// Debug ghi log debug
func (l *FileLogger) Debug(format string, v ...interface{}) {
	if l.level <= DebugLevel {
		l.debugLogger.Printf(format, v...)
	}
}
