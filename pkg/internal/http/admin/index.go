package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hashtagwatch/monitor/pkg/internal/http/api"
	"github.com/hashtagwatch/monitor/pkg/internal/services"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL)
	{
		admin.Post("/sync", adminTriggerSync)
		admin.Post("/cleanup", adminTriggerCleanup)
	}
}

func adminTriggerSync(c *fiber.Ctx) error {
	services.SyncAllHashtags(api.Quartz, api.Source)
	return c.SendStatus(fiber.StatusNoContent)
}

func adminTriggerCleanup(c *fiber.Ctx) error {
	services.DoAutoDatabaseCleanup()
	return c.SendStatus(fiber.StatusNoContent)
}
