package handlers

import (
	"github.com/gin-gonic/gin"

	"viewing-scheduler-server/internal/catalog"
	"viewing-scheduler-server/internal/utils"
)

// CatalogHandler serves the agents and properties appointments refer to.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: cat}
}

func (h *CatalogHandler) GetAgents(c *gin.Context) {
	utils.Success(c, "Agents fetched successfully", h.Catalog.Agents())
}

func (h *CatalogHandler) GetAgentByID(c *gin.Context) {
	agent, ok := h.Catalog.Agent(c.Param("id"))
	if !ok {
		utils.NotFound(c, "Agent not found")
		return
	}
	utils.Success(c, "Agent fetched successfully", agent)
}

func (h *CatalogHandler) GetProperties(c *gin.Context) {
	utils.Success(c, "Properties fetched successfully", h.Catalog.Properties())
}

func (h *CatalogHandler) GetPropertyByID(c *gin.Context) {
	property, ok := h.Catalog.Property(c.Param("id"))
	if !ok {
		utils.NotFound(c, "Property not found")
		return
	}
	utils.Success(c, "Property fetched successfully", property)
}
