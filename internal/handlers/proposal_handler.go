package handlers

import (
	"net/http"

	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService *services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{BaseHandler: base, proposalService: proposalService}
}

// Create handles POST /proposals.
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.proposalService.Create(h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMy handles GET /proposals/my.
func (h *ProposalHandler) ListMy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.ListMy(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": resp})
}

// Accept handles POST /proposals/:id/accept.
func (h *ProposalHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.Accept(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject handles POST /proposals/:id/reject.
func (h *ProposalHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.Reject(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /proposals/:id/cancel.
func (h *ProposalHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.Cancel(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update handles PUT /proposals/:id.
func (h *ProposalHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.proposalService.UpdateTerms(h.GetDB(c), userID, c.Param("id"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
