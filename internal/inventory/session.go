package inventory

import "estoque-backend/internal/models"

// Session is the request-scoped context of an inventory operation: who acts
// and which branch they have selected. UserID is zero when logins are off.
type Session struct {
	UserID   uint
	Username string
	Level    models.UserLevel
	Branch   string
}

// Snapshot is the state a client needs to redraw after any operation.
// Degraded is set when the state was read from a failing backend and holds
// fallback data.
type Snapshot struct {
	Branches []string         `json:"branches"`
	Selected string           `json:"selected"`
	Products []models.Product `json:"products"`
	Degraded bool             `json:"degraded,omitempty"`
}
