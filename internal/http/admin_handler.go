package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/routegraph/internal/http/httputil"
)

type GraphAdminHandler struct {
	graphSvc GraphProvider
}

func NewGraphAdminHandler(graphSvc GraphProvider) *GraphAdminHandler {
	return &GraphAdminHandler{graphSvc: graphSvc}
}

func (h *GraphAdminHandler) Root() string {
	return "/graph"
}

func (h *GraphAdminHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	admin.POST("/refresh", h.refresh)
}

func (h *GraphAdminHandler) refresh(c *gin.Context) {
	if err := h.graphSvc.Refresh(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("[HTTP] admin graph refresh failed")
		httputil.InternalError(c, err.Error())
		return
	}

	stats, err := h.graphSvc.Stats()
	if err != nil {
		writeGraphError(c, err)
		return
	}
	httputil.Success(c, stats)
}
