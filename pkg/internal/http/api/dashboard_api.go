package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/hashtagwatch/monitor/pkg/internal/services"
)

// Hashtag names carry a leading # so they arrive percent-encoded.
func decodeName(raw string) (string, error) {
	return url.QueryUnescape(raw)
}

func selectedHashtag(c *fiber.Ctx) *string {
	name := c.Query("hashtag")
	if len(name) == 0 {
		return nil
	}
	if decoded, err := decodeName(name); err == nil {
		name = decoded
	}
	return &name
}

func getDashboard(c *fiber.Ctx) error {
	snapshot, err := services.BuildDashboard(selectedHashtag(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(snapshot)
}

func listPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", services.LatestCount())
	if take > 500 {
		take = 500
	}

	posts, err := services.LatestPosts(selectedHashtag(c), take)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(posts)
}
