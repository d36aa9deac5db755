package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/hashtagwatch/monitor/pkg/internal/http/admin"
	"github.com/hashtagwatch/monitor/pkg/internal/http/api"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "HashtagMonitor",
		AppName:               "Hashtag Monitor",
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             1 << 20,
	})

	app.Use(cors.New())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.MapControllers(app, "/api")
	admin.MapControllers(app, "/api/admin")

	return &App{app: app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting the http server.")
	}
}
