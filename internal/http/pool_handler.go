package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/routegraph/internal/http/httputil"
)

type PoolHandler struct {
	graphSvc GraphProvider
}

func NewPoolHandler(graphSvc GraphProvider) *PoolHandler {
	return &PoolHandler{graphSvc: graphSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

func (h *PoolHandler) getStats(c *gin.Context) {
	stats, err := h.graphSvc.Stats()
	if err != nil {
		writeGraphError(c, err)
		return
	}
	httputil.Success(c, stats)
}
