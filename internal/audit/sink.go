// Package audit provides an optional JSON audit log for policy decisions
// riot-broker considers worth a durable record (Halt, Block, Freeze),
// mirroring cc-relay's gjson/sjson field-rewriting approach (used there to
// rewrite streamed SSE model output) but applied to redacting audit
// records instead.
package audit

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RedactFields are JSON field paths stripped from an audit record before
// it is logged, so a connection's credentials never reach the audit sink
// even though Record accepts a connection's raw properties verbatim.
var RedactFields = []string{"password"}

// Sink writes one structured log line per recorded decision.
type Sink struct {
	logger *zerolog.Logger
}

// NewSink wraps logger. A nil logger makes Record a no-op, so a Sink can
// always be constructed and wired even when audit logging is disabled.
func NewSink(logger *zerolog.Logger) *Sink {
	return &Sink{logger: logger}
}

// Record logs event with fields serialized to JSON, redacting any path in
// RedactFields first.
func (s *Sink) Record(event string, fields map[string]any) {
	if s.logger == nil {
		return
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return
	}
	for _, path := range RedactFields {
		if !gjson.GetBytes(raw, path).Exists() {
			continue
		}
		if redacted, serr := sjson.SetBytes(raw, path, "[redacted]"); serr == nil {
			raw = redacted
		}
	}
	s.logger.Info().RawJSON("audit", raw).Str("event", event).Msg("policy decision")
}
