package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/audit"
)

// AuditService wraps the policy-decision audit sink.
type AuditService struct {
	Sink *audit.Sink
}

// NewAudit creates the audit sink from the configured logger. Policy
// enforcement code reaches it through do rather than a global so tests can
// substitute a sink backed by a buffer logger.
func NewAudit(i do.Injector) (*AuditService, error) {
	loggerSvc := do.MustInvoke[*LoggerService](i)
	return &AuditService{Sink: audit.NewSink(loggerSvc.Logger)}, nil
}
