// handlers/social_routes.go
package handlers

import (
	"reward-claim-system/middleware"
	"reward-claim-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, socialProofService *services.SocialProofService) {
	// EventSource clients authenticate via query param, not headers
	app.Get("/events/withdrawals", middleware.SSEAuthMiddleware(), socialProofService.StreamWithdrawalsSSE)
}
