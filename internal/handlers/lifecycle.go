package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service"
)

type editionLifecycle struct {
	ID        int64             `json:"id"`
	State     string            `json:"state"`
	Lifecycle service.Lifecycle `json:"lifecycle"`
	Locales   []string          `json:"locales"`
}

type lifecycleResponse struct {
	DocumentID  int64              `json:"document_id"`
	ContentID   string             `json:"content_id"`
	Editions    []editionLifecycle `json:"editions"`
	Live        *int64             `json:"live_edition_id"`
	Draft       *int64             `json:"draft_edition_id"`
	Unpublished *int64             `json:"unpublished_edition_id"`
}

// LifecycleHandler shows how each edition of a document would be propagated
func LifecycleHandler(documents service.DocumentLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
		}

		doc, err := documents.GetWithEditions(c.UserContext(), id)
		if err != nil {
			return errorJSON(c, err)
		}
		if doc == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}

		resp := lifecycleResponse{
			DocumentID: doc.ID,
			ContentID:  doc.ContentID,
			Editions:   make([]editionLifecycle, len(doc.Editions)),
		}
		for i := range doc.Editions {
			ed := &doc.Editions[i]
			resp.Editions[i] = editionLifecycle{
				ID:        ed.ID,
				State:     string(ed.State),
				Lifecycle: service.Classify(ed),
				Locales:   service.Locales(ed),
			}
		}

		sel := service.SelectEditions(doc)
		resp.Live = editionID(sel.Live)
		resp.Draft = editionID(sel.Draft)
		resp.Unpublished = editionID(sel.Unpublished)

		return c.JSON(resp)
	}
}

func editionID(ed *model.Edition) *int64 {
	if ed == nil {
		return nil
	}
	id := ed.ID
	return &id
}
