package model

import "time"

// AuditAction names a state-changing action recorded in the audit log.
type AuditAction string

// Audit actions.
const (
	ActionUpload      AuditAction = "upload"
	ActionApprove     AuditAction = "approve"
	ActionReject      AuditAction = "reject"
	ActionEdit        AuditAction = "edit"
	ActionDelete      AuditAction = "delete"
	ActionBulkApprove AuditAction = "bulk_approve"
	ActionBulkDelete  AuditAction = "bulk_delete"
)

// AuditEntry is one append-only record of a state-changing call. Bulk
// operations write one entry per affected item, tied together by BatchRef.
type AuditEntry struct {
	Timestamp time.Time
	ID        string
	Action    AuditAction
	Actor     string
	TargetID  string
	BatchRef  string
	Details   string
	Origin    string
}
