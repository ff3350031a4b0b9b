package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service"
)

type republishRequest struct {
	Reason     string `json:"reason"`
	UserName   string `json:"user_name"`
	UpdateType string `json:"update_type"`
	AllowDraft bool   `json:"allow_draft"`
}

type bulkRepublishRequest struct {
	Reason          string   `json:"reason"`
	UserName        string   `json:"user_name"`
	BulkContentType string   `json:"bulk_content_type"`
	ContentType     string   `json:"content_type"`
	OrganisationID  string   `json:"organisation_id"`
	ContentIDs      []string `json:"content_ids"`
}

// RepublishDocumentHandler records a republishing event for one document and
// enqueues the republish, or runs it inline when enqueuer is nil
func RepublishDocumentHandler(documents service.DocumentLoader, recorder *service.EventRecorder, republisher service.DocumentRepublisher, enqueuer service.JobEnqueuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
		}

		var req republishRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		doc, err := documents.GetWithEditions(ctx, id)
		if err != nil {
			return errorJSON(c, err)
		}
		if doc == nil {
			return errorJSON(c, fmt.Errorf("document %d: %w", id, service.ErrNotFoundLocally))
		}

		event := &model.RepublishingEvent{
			Action:    fmt.Sprintf("%s has been republished", doc.Slug),
			Reason:    req.Reason,
			UserName:  req.UserName,
			ContentID: doc.ContentID,
		}
		if err := recorder.Record(ctx, event); err != nil {
			return errorJSON(c, err)
		}

		opts := service.Options{UpdateType: req.UpdateType, AllowDraft: req.AllowDraft}

		if enqueuer != nil {
			if err := enqueuer.EnqueueRepublish(ctx, id, opts); err != nil {
				return errorJSON(c, err)
			}
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status":      "enqueued",
				"document_id": id,
				"event_id":    event.ID,
			})
		}

		result, err := republisher.Republish(ctx, id, opts)
		if err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(fiber.Map{
			"status":                 "republished",
			"document_id":            id,
			"event_id":               event.ID,
			"live_edition_id":        result.LiveEditionID,
			"draft_edition_id":       result.DraftEditionID,
			"unpublished_edition_id": result.UnpublishedEditionID,
			"draft_skipped":          result.DraftSkipped,
		})
	}
}

// BulkRepublishHandler records a bulk republishing event and republishes every matching document
func BulkRepublishHandler(recorder *service.EventRecorder, bulk *service.BulkRepublisher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var req bulkRepublishRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		event := &model.RepublishingEvent{
			Action:          fmt.Sprintf("Bulk republishing of %s", req.BulkContentType),
			Reason:          req.Reason,
			UserName:        req.UserName,
			Bulk:            true,
			BulkContentType: req.BulkContentType,
			ContentType:     req.ContentType,
			OrganisationID:  req.OrganisationID,
			ContentIDs:      req.ContentIDs,
		}
		if err := recorder.Record(ctx, event); err != nil {
			return errorJSON(c, err)
		}

		stats, err := bulk.Run(ctx, event.Selection())
		if err != nil {
			return errorJSON(c, err)
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"event_id":    event.ID,
			"total":       stats.Total,
			"republished": stats.Republished,
			"enqueued":    stats.Enqueued,
			"failed":      stats.Failed,
		})
	}
}
