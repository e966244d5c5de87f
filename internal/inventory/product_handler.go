package inventory

import (
	"strings"
	"time"

	"estoque-backend/internal/request"
	"estoque-backend/internal/spreadsheet"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Barcode  string `json:"barcode" validate:"max=64"`
	Name     string `json:"name" validate:"required,max=255"`
	Brand    string `json:"brand" validate:"max=255"`
	Expiry   string `json:"expiry"` // 2006-01-02 or 02/01/2006, optional
	Quantity int    `json:"quantity" validate:"min=1"`
	Notes    string `json:"notes" validate:"max=500"`
}

type DeleteProductsRequest struct {
	IDs []uint `json:"ids"`
}

type ProductListResponse struct {
	Branch   string            `json:"branch"`
	Products []ProductResponse `json:"products"`
	Degraded bool              `json:"degraded"`
}

// GET /api/branches/:branch/products
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := sessionFrom(c).Branch
		ps, err := svc.Products(c.UserContext(), branch)
		deg, err := degraded(err)
		if err != nil {
			return err
		}
		return c.JSON(ProductListResponse{Branch: branch, Products: toProductResponses(ps), Degraded: deg})
	}
}

// GET /api/products
func ListAllProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := svc.AllProducts(c.UserContext())
		deg, err := degraded(err)
		if err != nil {
			return err
		}
		return c.JSON(ProductListResponse{Products: toProductResponses(ps), Degraded: deg})
	}
}

// POST /api/branches/:branch/products
func CreateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return httpError(ErrEmptyProductName)
		}
		if err := request.Validate(&body); err != nil {
			return err
		}

		var expiry *time.Time
		if strings.TrimSpace(body.Expiry) != "" {
			expiry = spreadsheet.ParseDate(body.Expiry)
			if expiry == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data de validade inválida")
			}
		}

		sess := sessionFrom(c)
		snap, err := svc.AddProduct(c.UserContext(), sess, NewProduct{
			Branch:   sess.Branch,
			Barcode:  body.Barcode,
			Name:     body.Name,
			Brand:    body.Brand,
			Expiry:   expiry,
			Quantity: body.Quantity,
			Notes:    body.Notes,
		})
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toSnapshotResponse(snap))
	}
}

// DELETE /api/branches/:branch/products  {"ids": [1, 2]}
func DeleteProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeleteProductsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		snap, err := svc.RemoveProducts(c.UserContext(), sessionFrom(c), body.IDs)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toSnapshotResponse(snap))
	}
}

// GET /api/branches/:branch/search?q=whey
func SearchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := sessionFrom(c).Branch
		ps, err := svc.Search(c.UserContext(), branch, c.Query("q"))
		deg, err := degraded(err)
		if err != nil {
			return err
		}
		return c.JSON(ProductListResponse{Branch: branch, Products: toProductResponses(ps), Degraded: deg})
	}
}

// GET /api/branches/:branch/expiring?days=30
func ExpiringHandler(svc *Service, defaultDays int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := sessionFrom(c).Branch
		days := c.QueryInt("days", defaultDays)

		ps, err := svc.Expiring(c.UserContext(), branch, days)
		deg, err := degraded(err)
		if err != nil {
			return err
		}
		return c.JSON(ProductListResponse{Branch: branch, Products: toProductResponses(ps), Degraded: deg})
	}
}

// GET /api/branches/:branch/summary
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := sessionFrom(c).Branch
		sum, err := svc.Summary(c.UserContext(), branch)
		deg, err := degraded(err)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"branch":         branch,
			"items":          sum.Items,
			"total_quantity": sum.TotalQuantity,
			"degraded":       deg,
		})
	}
}
