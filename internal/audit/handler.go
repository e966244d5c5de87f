package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint   `json:"id"`
	CreatedAt   string `json:"created_at"`
	Branch      string `json:"branch"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	BeforeData  string `json:"before_data"`
	AfterData   string `json:"after_data"`
}

// GET /api/audit-logs?branch=Centro&entity_type=product&user_id=1&limit=100
func ListAuditLogsHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Branch:     c.Query("branch"),
			EntityType: c.Query("entity_type"),
			Limit:      200,
		}
		if uid, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
			f.UserID = uint(uid)
		}
		if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 1000 {
			f.Limit = limit
		}

		logs, err := store.List(c.UserContext(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar a auditoria")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				Branch:      l.Branch,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}
		return c.JSON(resp)
	}
}
