package http

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/http/httputil"
	"github.com/hxuan190/routegraph/internal/services/router"
)

const maxBatchPairs = 500

type RouteHandler struct {
	graphSvc GraphProvider
}

func NewRouteHandler(graphSvc GraphProvider) *RouteHandler {
	return &RouteHandler{graphSvc: graphSvc}
}

func (h *RouteHandler) Root() string {
	return "/routes"
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getRoutes)
	pub.POST("/batch", h.getRoutesBatch)
}

// RouteQuery selects one directed token pair.
type RouteQuery struct {
	InputMint  string `form:"inputMint" json:"inputMint" binding:"required"`
	OutputMint string `form:"outputMint" json:"outputMint" binding:"required"`
}

// RoutesResponse lists every route found for a pair. Routes are unranked.
type RoutesResponse struct {
	ID         string         `json:"id"`
	InputMint  string         `json:"inputMint"`
	OutputMint string         `json:"outputMint"`
	Routes     []domain.Route `json:"routes"`
}

func (h *RouteHandler) getRoutes(c *gin.Context) {
	var q RouteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.BadRequest(c, "inputMint and outputMint are required")
		return
	}

	pair, err := parsePair(q)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	var opts *domain.SearchOptions
	if raw, ok := c.GetQuery("intermediateTokens"); ok {
		tokens, err := parseIntermediateList(strings.Split(raw, ","))
		if err != nil {
			httputil.BadRequest(c, err.Error())
			return
		}
		opts = &domain.SearchOptions{IntermediateTokens: tokens}
	}

	routes, err := h.graphSvc.GetRoute(pair.Start, pair.End, opts)
	if err != nil {
		writeGraphError(c, err)
		return
	}

	httputil.Success(c, RoutesResponse{
		ID:         router.SearchRouteID(pair.Start, pair.End),
		InputMint:  q.InputMint,
		OutputMint: q.OutputMint,
		Routes:     routes,
	})
}

// BatchRoutesRequest queries many pairs at once. Pairs may be given as
// objects or as route ids "<inputMint>-<outputMint>". A missing
// intermediateTokens applies the server default, an empty list allows none.
type BatchRoutesRequest struct {
	Pairs              []RouteQuery `json:"pairs"`
	RouteIDs           []string     `json:"routeIds"`
	IntermediateTokens []string     `json:"intermediateTokens"`
}

type BatchRoutesResponse struct {
	Results []domain.RouteSearchEntry `json:"results"`
}

func (h *RouteHandler) getRoutesBatch(c *gin.Context) {
	var req BatchRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body")
		return
	}

	total := len(req.Pairs) + len(req.RouteIDs)
	if total == 0 {
		httputil.BadRequest(c, "no pairs given")
		return
	}
	if total > maxBatchPairs {
		httputil.BadRequest(c, fmt.Sprintf("at most %d pairs per batch", maxBatchPairs))
		return
	}

	pairs := make([]domain.TokenPair, 0, total)
	for _, q := range req.Pairs {
		pair, err := parsePair(q)
		if err != nil {
			httputil.BadRequest(c, err.Error())
			return
		}
		pairs = append(pairs, pair)
	}
	for _, id := range req.RouteIDs {
		start, end, err := router.DeconstructRouteID(id)
		if err != nil {
			httputil.BadRequest(c, err.Error())
			return
		}
		pairs = append(pairs, domain.TokenPair{Start: start, End: end})
	}

	var opts *domain.SearchOptions
	if req.IntermediateTokens != nil {
		tokens, err := parseIntermediateList(req.IntermediateTokens)
		if err != nil {
			httputil.BadRequest(c, err.Error())
			return
		}
		opts = &domain.SearchOptions{IntermediateTokens: tokens}
	}

	entries, err := h.graphSvc.GetRoutesForPairs(pairs, opts)
	if err != nil {
		writeGraphError(c, err)
		return
	}
	httputil.Success(c, BatchRoutesResponse{Results: entries})
}

func parsePair(q RouteQuery) (domain.TokenPair, error) {
	start, err := solana.PublicKeyFromBase58(q.InputMint)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("invalid inputMint %q", q.InputMint)
	}
	end, err := solana.PublicKeyFromBase58(q.OutputMint)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("invalid outputMint %q", q.OutputMint)
	}
	return domain.TokenPair{Start: start, End: end}, nil
}

// parseIntermediateList always returns a non-nil slice so an explicit empty
// list keeps its "no intermediates" meaning.
func parseIntermediateList(raw []string) ([]solana.PublicKey, error) {
	keys, err := config.ParsePublicKeyList(strings.Join(raw, ","))
	if err != nil {
		return nil, fmt.Errorf("invalid intermediateTokens: %w", err)
	}
	if keys == nil {
		keys = []solana.PublicKey{}
	}
	return keys, nil
}
