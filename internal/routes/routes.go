// Package routes wires handlers to the gin router.
package routes

import (
	"fazservico_backend/internal/handlers"
	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/middleware"
	"fazservico_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Setup registers every route under /api/v1, plus the health and metrics
// endpoints at the root.
func Setup(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", h.HealthHandler.Health)
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1")

	// Public routes.
	v1.POST("/auth/register", h.AuthHandler.Register)
	v1.POST("/auth/login", h.AuthHandler.Login)
	v1.GET("/categories", h.CatalogHandler.ListCategories)
	v1.GET("/regions", h.CatalogHandler.ListRegions)
	v1.GET("/plans", h.SubscriptionHandler.ListPlans)
	v1.GET("/professionals/:id/ratings", h.RatingHandler.ListForProfessional)

	// Billing webhook: public, authenticated by its provider signature.
	v1.POST("/subscriptions/webhook", h.SubscriptionHandler.Webhook)

	// Authenticated routes.
	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/users/me", h.UserHandler.Me)
		authed.PUT("/users/me", h.UserHandler.UpdateMe)

		authed.GET("/service-requests", h.ServiceRequestHandler.Search)
		authed.GET("/service-requests/:id", h.ServiceRequestHandler.GetByID)

		authed.GET("/notifications", h.NotificationHandler.List)
		authed.POST("/notifications/:id/read", h.NotificationHandler.MarkAsRead)
		authed.POST("/notifications/read-all", h.NotificationHandler.MarkAllAsRead)
		authed.GET("/notifications/unread-count", h.NotificationHandler.UnreadCount)

		authed.GET("/contact", h.ContactHandler.GetContact)
	}

	// Client-only routes.
	clients := v1.Group("")
	clients.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient))
	{
		clients.POST("/service-requests", h.ServiceRequestHandler.Create)
		clients.GET("/service-requests/my", h.ServiceRequestHandler.ListMy)
		clients.GET("/service-requests/:id/proposals", h.ServiceRequestHandler.ListProposals)
		clients.POST("/service-requests/:id/promote-urgent", h.ServiceRequestHandler.PromoteUrgent)
		clients.POST("/service-requests/:id/close", h.ServiceRequestHandler.Close)
		clients.POST("/service-requests/:id/cancel", h.ServiceRequestHandler.Cancel)

		clients.POST("/proposals/:id/accept", h.ProposalHandler.Accept)
		clients.POST("/proposals/:id/reject", h.ProposalHandler.Reject)

		clients.POST("/contact/unlock", h.ContactHandler.Unlock)
		clients.POST("/ratings", h.RatingHandler.Create)
	}

	// Professional-only routes.
	professionals := v1.Group("")
	professionals.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleProfessional))
	{
		professionals.POST("/proposals", h.ProposalHandler.Create)
		professionals.GET("/proposals/my", h.ProposalHandler.ListMy)
		professionals.POST("/proposals/:id/cancel", h.ProposalHandler.Cancel)
		professionals.PUT("/proposals/:id", h.ProposalHandler.Update)

		professionals.GET("/subscriptions/me", h.SubscriptionHandler.Me)
		professionals.POST("/subscriptions/checkout", h.SubscriptionHandler.Checkout)
		professionals.POST("/subscriptions/cancel", h.SubscriptionHandler.Cancel)
	}

	// Admin-only routes.
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("/categories", h.CatalogHandler.CreateCategory)
		admin.POST("/regions", h.CatalogHandler.CreateRegion)
	}
}
