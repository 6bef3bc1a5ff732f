package observability

import (
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/auth"
)

// LogAuditor emits gate audit records through the structured logger. The
// emission is fire-and-forget; zap never blocks the request path here.
type LogAuditor struct {
	logger *zap.Logger
}

// NewLogAuditor builds an auditor writing to logger.
func NewLogAuditor(logger *zap.Logger) *LogAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogAuditor{logger: logger}
}

// Record logs one audit record for a successful gate check.
func (a *LogAuditor) Record(entry auth.AuditEntry) {
	a.logger.Info("audit",
		zap.String("principal", entry.Principal),
		zap.String("operation", entry.Operation),
		zap.String("arg", entry.Arg),
		zap.Time("at", entry.At),
	)
}
