package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"estoque-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EntityBranch  = "branch"
	EntityProduct = "product"
)

type Entry struct {
	Branch      string
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Recorder receives one Entry per inventory mutation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Store keeps entries in the auditoria table.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	row := models.AuditLog{
		Branch:      e.Branch,
		UserID:      e.UserID,
		UserName:    e.UserName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  marshal(e.Before),
		AfterData:   marshal(e.After),
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("registro de auditoria não salvo: %w", err)
	}
	return nil
}

func marshal(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

type Filter struct {
	Branch     string
	EntityType string
	UserID     uint
	Limit      int
}

func (s *Store) List(ctx context.Context, f Filter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Branch != "" {
		q = q.Where("branch = ?", f.Branch)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var logs []models.AuditLog
	err := q.Order("created_at DESC").Order("id DESC").Find(&logs).Error
	return logs, err
}

// LogRecorder writes entries as structured log lines. Used by the workbook
// backend, which has no table to keep them in.
type LogRecorder struct {
	Log *zap.Logger
}

func (r LogRecorder) Record(_ context.Context, e Entry) error {
	r.Log.Info("audit",
		zap.String("branch", e.Branch),
		zap.String("user", e.UserName),
		zap.String("entity_type", e.EntityType),
		zap.Uint("entity_id", e.EntityID),
		zap.String("action", string(e.Action)),
		zap.String("description", e.Description),
		zap.Any("before", e.Before),
		zap.Any("after", e.After),
	)
	return nil
}
