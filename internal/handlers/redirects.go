package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jjenkins/whitehall/internal/service"
)

type redirectRequest struct {
	ContentID    string   `json:"content_id"`
	Destination  string   `json:"destination"`
	Locale       string   `json:"locale"`
	AllowDraft   bool     `json:"allow_draft"`
	BasePath     string   `json:"base_path"`
	Destinations []string `json:"destinations"`
}

// RedirectHandler redirects an existing content item, or publishes a new
// redirect item when a base path is given
func RedirectHandler(redirector *service.Redirector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var req redirectRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.BasePath != "" {
			contentID, err := redirector.PublishRedirect(ctx, req.BasePath, req.Destinations)
			if err != nil {
				return errorJSON(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"content_id": contentID})
		}

		if req.ContentID == "" || req.Destination == "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "content_id and destination are required"})
		}

		if req.Locale != "" {
			if _, err := language.Parse(req.Locale); err != nil {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid locale " + req.Locale})
			}
		}

		if err := redirector.Redirect(ctx, req.ContentID, req.Destination, req.Locale, req.AllowDraft); err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(fiber.Map{"content_id": req.ContentID, "status": "redirected"})
	}
}
