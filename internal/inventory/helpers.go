package inventory

import (
	"errors"
	"strings"

	"estoque-backend/internal/auth"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type ProductResponse struct {
	ID       uint    `json:"id"`
	Branch   string  `json:"branch"`
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Expiry   *string `json:"expiry"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes"`
}

func toProductResponses(ps []models.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		r := ProductResponse{
			ID:       p.ID,
			Branch:   p.BranchName,
			Barcode:  p.Barcode,
			Name:     p.Name,
			Brand:    p.Brand,
			Quantity: p.Quantity,
			Notes:    p.Notes,
		}
		if p.Expiry != nil {
			s := p.Expiry.Format(dateLayout)
			r.Expiry = &s
		}
		res = append(res, r)
	}
	return res
}

type SnapshotResponse struct {
	Branches []string          `json:"branches"`
	Selected string            `json:"selected"`
	Products []ProductResponse `json:"products"`
	Degraded bool              `json:"degraded"`
}

func toSnapshotResponse(s *Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Branches: s.Branches,
		Selected: s.Selected,
		Products: toProductResponses(s.Products),
		Degraded: s.Degraded,
	}
}

// sessionFrom builds the Session of a request from the authenticated user
// (if any), the :branch route parameter and the ?selected= query.
func sessionFrom(c *fiber.Ctx) Session {
	var sess Session
	if id, ok := auth.CurrentIdentity(c); ok {
		sess.UserID = id.UserID
		sess.Username = id.Username
		sess.Level = id.Level
	}
	sess.Branch = strings.TrimSpace(c.Params("branch"))
	if sess.Branch == "" {
		sess.Branch = strings.TrimSpace(c.Query("selected"))
	}
	return sess
}

// httpError maps inventory errors onto HTTP statuses. Untyped errors are left
// for the app error handler.
func httpError(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	switch e.Code {
	case CodeValidation:
		return fiber.NewError(fiber.StatusBadRequest, e.Msg)
	case CodeConflict:
		return fiber.NewError(fiber.StatusConflict, e.Msg)
	case CodeNotFound:
		return fiber.NewError(fiber.StatusNotFound, e.Msg)
	case CodeUnavailable:
		return fiber.NewError(fiber.StatusServiceUnavailable, e.Msg)
	}
	return err
}

// degraded reports whether a read error only means the data is a fallback.
// Any other error fails the request.
func degraded(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if CodeOf(err) == CodeUnavailable {
		return true, nil
	}
	return false, httpError(err)
}
