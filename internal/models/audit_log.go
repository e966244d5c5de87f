package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionDelete AuditAction = "delete"
	AuditActionImport AuditAction = "import"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Branch name at the time of the action (denormalized, the branch may be gone).
	Branch   string `gorm:"size:100;index" json:"branch"`
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// "branch" or "product"
	EntityType string      `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint        `gorm:"index" json:"entity_id"`
	Action     AuditAction `gorm:"size:20" json:"action"`

	Description string `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}

func (AuditLog) TableName() string { return "auditoria" }
