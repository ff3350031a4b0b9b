package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service"
)

// ContentBlockInserter stores published content block editions
type ContentBlockInserter interface {
	Insert(ctx context.Context, cb *model.ContentBlockEdition) error
}

type contentBlockRequest struct {
	BlockType string         `json:"block_type"`
	Title     string         `json:"title"`
	Details   map[string]any `json:"details"`
}

// ContentBlockHandler publishes a new content block and stores its edition
func ContentBlockHandler(publisher *service.ContentBlockPublisher, blocks ContentBlockInserter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var req contentBlockRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		cb := &model.ContentBlockEdition{
			BlockType: req.BlockType,
			Title:     req.Title,
			Details:   req.Details,
		}
		if err := publisher.Publish(ctx, cb); err != nil {
			return errorJSON(c, err)
		}

		if err := blocks.Insert(ctx, cb); err != nil {
			log.Error().Err(err).Str("content_id", cb.ContentID).Msg("content block published but not stored")
			return errorJSON(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"content_id":  cb.ContentID,
			"schema_name": "content_block_" + cb.BlockType,
		})
	}
}
