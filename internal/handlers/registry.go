package handlers

// AppHandlers bundles every handler for route registration.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	UserHandler           *UserHandler
	ServiceRequestHandler *ServiceRequestHandler
	ProposalHandler       *ProposalHandler
	ContactHandler        *ContactHandler
	SubscriptionHandler   *SubscriptionHandler
	CatalogHandler        *CatalogHandler
	NotificationHandler   *NotificationHandler
	RatingHandler         *RatingHandler
	HealthHandler         *HealthHandler
}
