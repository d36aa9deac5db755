package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hashtagwatch/monitor/pkg/internal/services"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

func listHashtags(c *fiber.Ctx) error {
	hashtags, err := services.ListHashtags()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(hashtags)
}

func createHashtag(c *fiber.Ctx) error {
	var data struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	hashtag, err := services.CreateHashtagAndFetch(Quartz, Source, data.Name)
	if err != nil {
		var issues *services.ValidationError
		if errors.As(err, &issues) {
			return c.Status(fiber.StatusBadRequest).JSON(issues)
		}

		// The hashtag exists; only the initial fetch went wrong.
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"hashtag": hashtag,
			"warning": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(hashtag)
}

func deleteHashtag(c *fiber.Ctx) error {
	name := c.Params("name")
	if decoded, err := decodeName(name); err == nil {
		name = decoded
	}

	existed, err := services.DeleteHashtagIfExists(name)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !existed {
		return fiber.NewError(fiber.StatusNotFound, "no such hashtag")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
