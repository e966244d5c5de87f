package inventory

import (
	"strings"

	"estoque-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

type CreateBranchRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GET /api/branches?selected=Centro
func SnapshotHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		snap, err := svc.Snapshot(c.UserContext(), sess.Branch)
		if _, err := degraded(err); err != nil {
			return err
		}
		return c.JSON(toSnapshotResponse(snap))
	}
}

// POST /api/branches?selected=Centro
func CreateBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		// blank names are a domain error, so validate after trimming
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return httpError(ErrEmptyBranchName)
		}
		if err := request.Validate(&body); err != nil {
			return err
		}

		snap, err := svc.AddBranch(c.UserContext(), sessionFrom(c), body.Name)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toSnapshotResponse(snap))
	}
}

// DELETE /api/branches/:branch?selected=Centro
func DeleteBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		name := sess.Branch
		// the selection comes from the query here, :branch is the target
		sess.Branch = strings.TrimSpace(c.Query("selected"))

		snap, err := svc.RemoveBranch(c.UserContext(), sess, name)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toSnapshotResponse(snap))
	}
}
