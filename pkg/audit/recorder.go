package audit

import (
	"context"
	"log/slog"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/logger"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// ActionTransition is the audit action of a workflow transition attempt.
const ActionTransition = "workflow.transition"

// WorkflowRecorder writes every transition attempt, accepted or rejected,
// to the audit trail. It implements workflow.AttemptRecorder.
type WorkflowRecorder struct {
	audit  *Logger
	logger *slog.Logger
}

// NewWorkflowRecorder creates a recorder. A nil log discards write failures.
func NewWorkflowRecorder(audit *Logger, log *slog.Logger) *WorkflowRecorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &WorkflowRecorder{audit: audit, logger: log}
}

// RecordAttempt never fails the transition; write errors are logged.
func (r *WorkflowRecorder) RecordAttempt(ctx context.Context, a workflow.TransitionAttempt, err error) {
	opts := []EventOption{
		WithTenant(a.TenantID),
		WithEntity(string(a.Kind), a.EntityID),
		WithTransition(a.FromObserved, a.ToRequested),
		WithActor(a.Actor),
		WithPayload(a.Payload),
		WithTime(a.At),
	}

	var writeErr error
	if err == nil {
		writeErr = r.audit.Log(ctx, ActionTransition, opts...)
	} else {
		result := ResultFailure
		if workflow.IsStorageFailure(err) {
			result = ResultError
		}
		opts = append(opts, WithErrorCode(workflow.Code(err)), WithResult(result))
		writeErr = r.audit.LogError(ctx, ActionTransition, err, opts...)
	}

	if writeErr != nil {
		r.logger.WarnContext(ctx, "failed to write audit event",
			logger.EntityKind(string(a.Kind)),
			logger.EntityID(a.EntityID),
			logger.TenantID(a.TenantID),
			logger.Error(writeErr),
		)
	}
}
