package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type callToolRequest struct {
	Name      string         `json:"name" binding:"required"`
	Arguments map[string]any `json:"arguments"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callToolResponse struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError"`
}

func (h *InventoryHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": service.Tools()})
}

// CallTool mirrors the MCP tools/call request over HTTP.
func (h *InventoryHandler) CallTool(c *gin.Context) {
	var req callToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res := h.service.Dispatch(c.Request.Context(), req.Name, req.Arguments)

	status := http.StatusOK
	if !isKnownTool(req.Name) {
		status = http.StatusBadRequest
	}

	c.JSON(status, callToolResponse{
		Content: []textContent{{Type: "text", Text: res.Text}},
		IsError: res.IsError,
	})
}

func isKnownTool(name string) bool {
	for _, tool := range service.Tools() {
		if tool.Name == name {
			return true
		}
	}
	return false
}

func (h *InventoryHandler) ListCurrentStock(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListCurrentStock())
}

func (h *InventoryHandler) GetCurrentStock(c *gin.Context) {
	rec, err := h.service.GetCurrentStock(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *InventoryHandler) ListPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListPolicies())
}

func (h *InventoryHandler) GetPolicy(c *gin.Context) {
	rec, err := h.service.GetPolicy(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *InventoryHandler) ListStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListStatuses())
}

func (h *InventoryHandler) GetStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *InventoryHandler) GetReorderSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ReorderSuggestions())
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrComputation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
