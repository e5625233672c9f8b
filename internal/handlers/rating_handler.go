package handlers

import (
	"net/http"

	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	*BaseHandler
	ratingService *services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{BaseHandler: base, ratingService: ratingService}
}

// Create handles POST /ratings.
func (h *RatingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ratingService.Create(h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListForProfessional handles GET /professionals/:id/ratings.
func (h *RatingHandler) ListForProfessional(c *gin.Context) {
	resp, err := h.ratingService.ListForProfessional(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
