package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/http/httputil"
)

type TokenHandler struct {
	graphSvc GraphProvider
}

func NewTokenHandler(graphSvc GraphProvider) *TokenHandler {
	return &TokenHandler{graphSvc: graphSvc}
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/:mint/edges", h.getEdges)
}

type TokenEdgesResponse struct {
	Mint  string        `json:"mint"`
	Edges []domain.Edge `json:"edges"`
}

func (h *TokenHandler) getEdges(c *gin.Context) {
	mint, err := solana.PublicKeyFromBase58(c.Param("mint"))
	if err != nil {
		httputil.BadRequest(c, "invalid mint")
		return
	}

	edges, err := h.graphSvc.TokenEdges(mint)
	if err != nil {
		writeGraphError(c, err)
		return
	}
	httputil.Success(c, TokenEdgesResponse{Mint: mint.String(), Edges: edges})
}
