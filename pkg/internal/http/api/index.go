package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/hashtagwatch/monitor/pkg/internal/scheduler"
	"github.com/hashtagwatch/monitor/pkg/internal/twitter"
)

// Wired by main at startup.
var (
	Quartz *scheduler.Scheduler
	Source twitter.Client
)

func MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		api.Get("/hashtags", listHashtags)
		api.Post("/hashtags", createHashtag)
		api.Delete("/hashtags/:name", deleteHashtag)

		api.Get("/dashboard", getDashboard)
		api.Get("/posts", listPosts)
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(handleSubscriber))
}
