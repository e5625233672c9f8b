package handlers

import (
	"net/http"

	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ServiceRequestHandler struct {
	*BaseHandler
	serviceRequestService *services.ServiceRequestService
	proposalService       *services.ProposalService
}

func NewServiceRequestHandler(
	base *BaseHandler,
	serviceRequestService *services.ServiceRequestService,
	proposalService *services.ProposalService,
) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		BaseHandler:           base,
		serviceRequestService: serviceRequestService,
		proposalService:       proposalService,
	}
}

// Create handles POST /service-requests.
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.serviceRequestService.Create(h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Search handles GET /service-requests.
func (h *ServiceRequestHandler) Search(c *gin.Context) {
	var req dto.SearchServiceRequestsRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	resp, err := h.serviceRequestService.Search(h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMy handles GET /service-requests/my.
func (h *ServiceRequestHandler) ListMy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.serviceRequestService.ListMy(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": resp})
}

// GetByID handles GET /service-requests/:id.
func (h *ServiceRequestHandler) GetByID(c *gin.Context) {
	resp, err := h.serviceRequestService.GetByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProposals handles GET /service-requests/:id/proposals, visible to the
// request owner.
func (h *ServiceRequestHandler) ListProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.ListByRequest(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": resp})
}

// PromoteUrgent handles POST /service-requests/:id/promote-urgent.
func (h *ServiceRequestHandler) PromoteUrgent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.serviceRequestService.PromoteUrgent(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close handles POST /service-requests/:id/close.
func (h *ServiceRequestHandler) Close(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.serviceRequestService.Close(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /service-requests/:id/cancel.
func (h *ServiceRequestHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.serviceRequestService.Cancel(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
