package handlers

import (
	"net/http"

	"fazservico_backend/internal/middleware"
	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService *services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{BaseHandler: base, contactService: contactService}
}

// GetContact handles GET /contact?userId=&serviceRequestId=.
func (h *ContactHandler) GetContact(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.GetContactRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	resp, err := h.contactService.GetContact(h.GetDB(c), userID, middleware.GetRole(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Unlock handles POST /contact/unlock, client role only.
func (h *ContactHandler) Unlock(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UnlockContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.contactService.UnlockProfessionalContact(h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
