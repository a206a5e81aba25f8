package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is a before/after record of a ledger mutation.
type AuditLog struct {
	CreatedAt    time.Time
	BeforeState  JSON
	AfterState   JSON
	ID           string
	OwnerID      string // Scope the action ran under
	ActorID      string // Who performed the action
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	Status       string
	ErrorMessage string
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate  AuditAction = "account.create"
	AuditActionAccountArchive AuditAction = "account.archive"
	AuditActionPartyCreate    AuditAction = "party.create"

	AuditActionTransactionCreate  AuditAction = "transaction.create"
	AuditActionTransactionUpdate  AuditAction = "transaction.update"
	AuditActionTransactionDelete  AuditAction = "transaction.delete"
	AuditActionTransactionRestore AuditAction = "transaction.restore"

	AuditActionTransferCreate AuditAction = "transfer.create"

	AuditActionInvoiceCreate  AuditAction = "invoice.create"
	AuditActionInvoiceIssue   AuditAction = "invoice.issue"
	AuditActionInvoiceCancel  AuditAction = "invoice.cancel"
	AuditActionInvoicePayment AuditAction = "invoice.payment"

	AuditActionLedgerRecalculate AuditAction = "ledger.recalculate"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
