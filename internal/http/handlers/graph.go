package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cortexintel/cortex/internal/graphview"
	"github.com/cortexintel/cortex/internal/http/response"
	"github.com/cortexintel/cortex/internal/platform/logger"
	"github.com/cortexintel/cortex/internal/translate"
)

type GraphHandler struct {
	view       *graphview.Service
	translator *translate.Translator
	log        *logger.Logger
}

// NewGraphHandler wires the approved-view layer. translator may be nil; the
// query endpoint then serves the default view only.
func NewGraphHandler(view *graphview.Service, translator *translate.Translator, log *logger.Logger) *GraphHandler {
	return &GraphHandler{view: view, translator: translator, log: log.With("handler", "graph")}
}

// GET /api/graph
func (h *GraphHandler) Graph(c *gin.Context) {
	result, err := h.view.Graph(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "graph_query_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/graph/nodes/:name/connections
func (h *GraphHandler) NodeConnections(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_node_name", nil)
		return
	}
	neighbors, err := h.view.NodeConnections(c.Request.Context(), name)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "node_connections_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"connections": neighbors})
}

type queryReq struct {
	Question string `json:"question"`
}

// POST /api/graph/query runs a natural-language query over the approved
// graph. Translation failures fall back to the default view rather than
// erroring the dashboard.
func (h *GraphHandler) Query(c *gin.Context) {
	var req queryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()

	if h.translator == nil || strings.TrimSpace(req.Question) == "" {
		h.Graph(c)
		return
	}

	cypher, err := h.translator.Translate(ctx, req.Question)
	if err != nil {
		h.log.Warn("translation failed, serving default view", "error", err)
		h.Graph(c)
		return
	}
	result, err := h.view.QueryGraph(ctx, cypher)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "graph_query_failed", err)
		return
	}
	response.RespondOK(c, result)
}
