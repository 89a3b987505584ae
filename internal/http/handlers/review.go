package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cortexintel/cortex/internal/http/response"
	"github.com/cortexintel/cortex/internal/review"
)

type ReviewHandler struct {
	svc *review.Service
}

func NewReviewHandler(svc *review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type decisionReq struct {
	ID string `json:"id"`
}

// GET /api/review/nodes/next
func (h *ReviewHandler) NextNode(c *gin.Context) {
	node, err := h.svc.NextNode(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "fetch_pending_node_failed", err)
		return
	}
	// node == nil means all clear, not an error.
	response.RespondOK(c, gin.H{"node": node})
}

// POST /api/review/nodes/approve
func (h *ReviewHandler) ApproveNode(c *gin.Context) {
	var req decisionReq
	_ = c.ShouldBindJSON(&req)
	decision, err := h.svc.ApproveNode(c.Request.Context(), req.ID)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "approve_node_failed", err)
		return
	}
	response.RespondOK(c, decision)
}

// POST /api/review/nodes/reject
func (h *ReviewHandler) RejectNode(c *gin.Context) {
	var req decisionReq
	_ = c.ShouldBindJSON(&req)
	decision, err := h.svc.RejectNode(c.Request.Context(), req.ID)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "reject_node_failed", err)
		return
	}
	response.RespondOK(c, decision)
}

// GET /api/review/relationships/next
func (h *ReviewHandler) NextRelationship(c *gin.Context) {
	rel, err := h.svc.NextRelationship(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "fetch_pending_relationship_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"relationship": rel})
}

// POST /api/review/relationships/approve
func (h *ReviewHandler) ApproveRelationship(c *gin.Context) {
	var req decisionReq
	_ = c.ShouldBindJSON(&req)
	decision, err := h.svc.ApproveRelationship(c.Request.Context(), req.ID)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "approve_relationship_failed", err)
		return
	}
	response.RespondOK(c, decision)
}

// POST /api/review/relationships/reject
func (h *ReviewHandler) RejectRelationship(c *gin.Context) {
	var req decisionReq
	_ = c.ShouldBindJSON(&req)
	decision, err := h.svc.RejectRelationship(c.Request.Context(), req.ID)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "reject_relationship_failed", err)
		return
	}
	response.RespondOK(c, decision)
}
