package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shark8848/knowledge-transformer/internal/httpapi/response"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// FormatsHandler serves GET /formats: enumerates the registry's
// (source,target,plugin) triples.
type FormatsHandler struct {
	Registry *plugins.Registry
}

func NewFormatsHandler(registry *plugins.Registry) *FormatsHandler {
	return &FormatsHandler{Registry: registry}
}

func (h *FormatsHandler) ListFormats(c *gin.Context) {
	response.OK(c, gin.H{"formats": h.Registry.Formats()})
}
