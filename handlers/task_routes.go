// handlers/task_routes.go
package handlers

import (
	"reward-claim-system/middleware"
	"reward-claim-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, claimService *services.ClaimService) {
	// 🔐 Secured routes — require user context from the gateway
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/tasks", claimService.ListTasks)
	securedGroup.Post("/tasks/:id/claim", claimService.ClaimTask)
	securedGroup.Get("/user/balance", claimService.GetBalance)
	securedGroup.Get("/user/claims", claimService.GetClaimHistory)
}
