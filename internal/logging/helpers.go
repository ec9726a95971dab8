package logging

import (
	"maps"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

// WithFields attaches fields when logger implements FieldsLogger. Loggers
// without field support are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}
