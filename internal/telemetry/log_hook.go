package telemetry

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	otellog "go.opentelemetry.io/otel/log"
)

// logHook emits every logrus entry as an otel log record.
type logHook struct {
	logger otellog.Logger
}

func newLogHook(logger otellog.Logger) log.Hook {
	return &logHook{logger}
}

func (h *logHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *logHook) Fire(entry *log.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	h.logger.Emit(ctx, toRecord(entry))
	return nil
}

func toRecord(entry *log.Entry) otellog.Record {
	var record otellog.Record
	record.SetTimestamp(entry.Time)
	record.SetBody(otellog.StringValue(entry.Message))
	record.SetSeverity(severity(entry.Level))
	record.SetSeverityText(entry.Level.String())

	attrs := make([]otellog.KeyValue, 0, len(entry.Data))
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			attrs = append(attrs, otellog.String(k, err.Error()))
			continue
		}
		attrs = append(attrs, otellog.String(k, fmt.Sprint(v)))
	}
	record.AddAttributes(attrs...)
	return record
}

func severity(level log.Level) otellog.Severity {
	switch level {
	case log.TraceLevel:
		return otellog.SeverityTrace
	case log.DebugLevel:
		return otellog.SeverityDebug
	case log.InfoLevel:
		return otellog.SeverityInfo
	case log.WarnLevel:
		return otellog.SeverityWarn
	case log.ErrorLevel:
		return otellog.SeverityError
	case log.FatalLevel:
		return otellog.SeverityFatal
	case log.PanicLevel:
		return otellog.SeverityFatal4
	default:
		return otellog.SeverityUndefined
	}
}
