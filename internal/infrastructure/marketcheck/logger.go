package marketcheck

import (
	"fmt"

	"github.com/rs/zerolog"
)

// leveledLogger routes retryablehttp's logging into zerolog. retryablehttp logs
// the request URL, which carries the API key, so string values pass through redact.
type leveledLogger struct {
	logger zerolog.Logger
	redact func(string) string
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(l.fields(keysAndValues)).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(l.fields(keysAndValues)).Msg(msg)
}

// Info is demoted to debug: retryablehttp logs every attempt at info
func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(l.fields(keysAndValues)).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(l.fields(keysAndValues)).Msg(msg)
}

func (l leveledLogger) fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		var text string
		switch v := keysAndValues[i+1].(type) {
		case string:
			text = v
		case error:
			text = v.Error()
		case fmt.Stringer:
			text = v.String()
		default:
			out[key] = v
			continue
		}
		if l.redact != nil {
			text = l.redact(text)
		}
		out[key] = text
	}
	return out
}
