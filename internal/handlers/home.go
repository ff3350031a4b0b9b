package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/service"
	"github.com/jjenkins/whitehall/internal/templates"
)

const recentEvents = 10

func HomeHandler(stats *service.StatsService, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := templates.HomeData{}

		dashboard, err := stats.Dashboard(c.UserContext(), recentEvents)
		if err != nil {
			log.Error().Err(err).Msg("failed to load dashboard stats")
		} else {
			data.Stats = dashboard
			data.HasData = dashboard.TotalDocuments > 0
		}

		page := templates.Home(data)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

func RepublishingEventsHandler(events service.EventLister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)

		list, err := events.ListRecent(c.UserContext(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading republishing events")
		}

		page := templates.RepublishingEvents(list)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
