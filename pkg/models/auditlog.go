package models

import "time"

// AuditLog records every moderation action taken through the admin API.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   int64     `gorm:"index;not null" json:"actor_id"`
	TargetID  int64     `gorm:"index" json:"target_id,omitempty"`
	Action    string    `gorm:"not null;size:64" json:"action"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for AuditLog.
func (AuditLog) TableName() string {
	return "audit_logs"
}
