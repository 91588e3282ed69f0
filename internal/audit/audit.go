package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType classifies what happened to a user's data. The privacy
// endpoints are the only audited surface: data leaves the system (EXPORT)
// or is erased (DELETE).
type OperationType string

const (
	OperationDelete OperationType = "DELETE"
	OperationExport OperationType = "EXPORT"
)

// ResourceType names the kind of resource an operation touched
type ResourceType string

const (
	ResourceHealthSample ResourceType = "health_sample"
	ResourceWorkout      ResourceType = "workout"
	ResourceReport       ResourceType = "report"
	ResourceUser         ResourceType = "user"
)

// AuditLog represents one audit trail entry
type AuditLog struct {
	ID             string
	UserID         string
	OperationType  OperationType
	ResourceType   ResourceType
	ResourceID     string
	Timestamp      time.Time
	IPAddress      string
	UserAgent      string
	AdditionalData map[string]interface{}
}

// Logger writes the audit trail. Entries go to the structured log first and
// to Postgres second, so an insert failure still leaves a trace.
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Log records an audit entry
func (l *Logger) Log(ctx context.Context, entry AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.logger.Info("Audit log entry",
		zap.String("user_id", entry.UserID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	query := `
		INSERT INTO audit_logs (
			user_id, operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := l.db.Exec(ctx, query,
		entry.UserID,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.AdditionalData,
	)

	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return err
	}

	return nil
}

// LogDelete records the erasure of a resource
func (l *Logger) LogDelete(ctx context.Context, userID string, resource ResourceType, resourceID, ipAddress, userAgent string) error {
	return l.Log(ctx, AuditLog{
		UserID:        userID,
		OperationType: OperationDelete,
		ResourceType:  resource,
		ResourceID:    resourceID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogExport records a full data export, noting whether the payload left the
// system encrypted
func (l *Logger) LogExport(ctx context.Context, userID string, encrypted bool, ipAddress, userAgent string) error {
	return l.Log(ctx, AuditLog{
		UserID:        userID,
		OperationType: OperationExport,
		ResourceType:  ResourceUser,
		ResourceID:    userID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		AdditionalData: map[string]interface{}{
			"encrypted": encrypted,
		},
	})
}

// GetAuditLogs retrieves the audit trail for a user, newest first
func (l *Logger) GetAuditLogs(ctx context.Context, userID string, limit int) ([]AuditLog, error) {
	query := `
		SELECT user_id, operation_type, resource_type, resource_id,
		       timestamp, ip_address, user_agent
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := l.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var log AuditLog
		err := rows.Scan(
			&log.UserID,
			&log.OperationType,
			&log.ResourceType,
			&log.ResourceID,
			&log.Timestamp,
			&log.IPAddress,
			&log.UserAgent,
		)
		if err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		logs = append(logs, log)
	}

	return logs, nil
}
