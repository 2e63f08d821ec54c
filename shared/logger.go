package shared

import (
	"go.uber.org/zap"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	ServiceName string // "unitctl", "client", ...
	Development bool   // console output at debug level
	Quiet       bool   // errors only
}

// Logger wraps zap.Logger with additional context
type Logger struct {
	*zap.Logger
	serviceName string
}

// NewLogger creates a new logger instance based on the configuration
func NewLogger(config LoggerConfig) (*Logger, error) {
	var zapLogger *zap.Logger
	var err error

	if config.Quiet {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
		zapConfig.DisableCaller = true
		zapConfig.DisableStacktrace = true
		zapLogger, err = zapConfig.Build()
	} else if config.Development {
		zapConfig := zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zapLogger, err = zapConfig.Build()
	} else {
		// Structured JSON for anything consuming our output
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapLogger, err = zapConfig.Build()
	}

	if err != nil {
		return nil, err
	}

	return Wrap(zapLogger, config.ServiceName), nil
}

// Wrap attaches the service field to an existing zap logger.
func Wrap(zapLogger *zap.Logger, serviceName string) *Logger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	if serviceName != "" {
		zapLogger = zapLogger.With(zap.String("service", serviceName))
	}
	return &Logger{Logger: zapLogger, serviceName: serviceName}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// NewLoggerFromEnv creates a logger using environment variables
func NewLoggerFromEnv(serviceName string) (*Logger, error) {
	config := LoggerConfig{
		ServiceName: serviceName,
		Development: GetEnvBoolOrDefault("DEVELOPMENT", false),
		Quiet:       GetEnvBoolOrDefault("LOG_QUIET", false),
	}
	return NewLogger(config)
}

// ServiceName returns the service the logger was created for.
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// Request-aware logging
func (l *Logger) WithRequest(requestID string) *zap.Logger {
	if requestID == "" {
		return l.Logger
	}
	return l.Logger.With(zap.String("request_id", requestID))
}

// Guardian-aware logging
func (l *Logger) WithNode(nodeID string) *zap.Logger {
	if nodeID == "" {
		return l.Logger
	}
	return l.Logger.With(zap.String("node_id", nodeID))
}

func (l *Logger) WithNetwork(network string) *zap.Logger {
	return l.Logger.With(zap.String("network", network))
}

// Critical error logging
func (l *Logger) Critical(msg string, fields ...zap.Field) {
	l.Logger.Error(msg, append(fields, zap.Bool("critical", true))...)
}

// Security event logging - untrusted addresses, failed quorum, pinned key mismatches
func (l *Logger) Security(msg string, fields ...zap.Field) {
	l.Logger.Warn(msg, append(fields, zap.Bool("security_event", true))...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
