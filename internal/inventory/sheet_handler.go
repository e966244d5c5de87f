package inventory

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/branches/:branch/export
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branch := sessionFrom(c).Branch
		data, err := svc.Export(c.UserContext(), branch)
		if err != nil {
			return httpError(err)
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", ExportFileName(branch)))
		return c.Send(data)
	}
}

// POST /api/branches/:branch/import  (multipart, field "file")
func ImportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Envie a planilha no campo 'file'")
		}
		file, err := fh.Open()
		if err != nil {
			return httpError(ErrUnreadableFile)
		}
		defer file.Close()

		sess := sessionFrom(c)
		res, err := svc.Import(c.UserContext(), sess, sess.Branch, file)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"imported": res.Imported,
			"rejected": res.Rejected,
			"message":  fmt.Sprintf("%d produtos importados com sucesso!", res.Imported),
			"snapshot": toSnapshotResponse(res.Snapshot),
		})
	}
}
