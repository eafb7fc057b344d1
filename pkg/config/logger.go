package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"todographql/pkg/tracing"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap logger with trace correlation and an optional Loki push.
type Logger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLogger builds the application logger. An empty lokiURL disables the Loki push.
func NewLogger(serviceName, lokiURL string) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLogger(zapLogger, serviceName, lokiURL), nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return newLogger(zap.NewNop(), "test", "")
}

func newLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *Logger {
	logger := &Logger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		logger.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return logger
}

// Zap exposes the underlying zap logger for components that do not need trace context.
func (l *Logger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

func (l *Logger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *Logger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("service", l.serviceName))

	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, fields...)
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, fields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, fields...)
	}

	if l.lokiURL != "" {
		entry := l.buildLokiEntry(ctx, level, msg, fields)
		go l.sendToLoki(entry)
	}
}

func (l *Logger) buildLokiEntry(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) LokiLogEntry {
	encoder := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(encoder)
	}

	logData := encoder.Fields
	logData["timestamp"] = time.Now().Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg

	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		logData["trace_id"] = traceID
		logData["span_id"] = tracing.GetSpanID(ctx)
	}

	line, err := json.Marshal(logData)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"message":%q}`, msg))
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.serviceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(line)},
				},
			},
		},
	}
}

func (l *Logger) sendToLoki(entry LokiLogEntry) {
	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)
}

func LogError(ctx context.Context, logger *Logger, err error, msg string, fields ...zap.Field) {
	logger.ErrorWithTrace(ctx, msg, append(fields, zap.Error(err))...)
}

func LogInfo(ctx context.Context, logger *Logger, msg string, fields ...zap.Field) {
	logger.InfoWithTrace(ctx, msg, fields...)
}
