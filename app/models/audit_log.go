package models

import "time"

// AuditLogEntry records every ledger write, 1:1 with PaymentTransaction rows.
// Rows are write-once; nothing in this service updates or deletes them.
type AuditLogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(64);not null;index" json:"action"`
	RecordID  uint      `gorm:"index;not null" json:"record_id"`
	NewValues string    `gorm:"type:longtext;not null" json:"new_values"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
