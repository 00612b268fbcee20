package model

import "time"

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionCancel     AuditAction = "cancel"
	AuditActionUpdate     AuditAction = "update"
	AuditActionAutoCancel AuditAction = "auto_cancel"
)

// ReservationAudit is an append-only lifecycle record. Entries are written in
// the same transaction as the mutation they describe and are never updated.
type ReservationAudit struct {
	ID            string         `json:"id" bson:"_id"`
	ReservationID string         `json:"reservation_id" bson:"reservation_id" validate:"required"`
	ActorID       string         `json:"actor_id" bson:"actor_id" validate:"required"`
	Action        AuditAction    `json:"action" bson:"action" validate:"required,oneof=create cancel update auto_cancel"`
	Meta          map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}
