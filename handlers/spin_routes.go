// handlers/spin_routes.go
package handlers

import (
	"reward-claim-system/middleware"
	"reward-claim-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSpinRoutes(app *fiber.App, spinService *services.SpinService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/spin", spinService.Spin)
}
