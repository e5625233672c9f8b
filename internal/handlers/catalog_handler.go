package handlers

import (
	"net/http"

	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	*BaseHandler
	catalogService *services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, catalogService: catalogService}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.catalogService.ListCategories(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": resp})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.catalogService.CreateCategory(h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListRegions(c *gin.Context) {
	resp, err := h.catalogService.ListRegions(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": resp})
}

func (h *CatalogHandler) CreateRegion(c *gin.Context) {
	var req dto.CreateRegionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.catalogService.CreateRegion(h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
