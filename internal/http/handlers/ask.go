package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/http/response"
	"github.com/yungbote/docqa-backend/internal/services"
	"github.com/yungbote/docqa-backend/internal/types"
)

type AskHandler struct {
	ask *services.AskService
}

func NewAskHandler(ask *services.AskService) *AskHandler {
	return &AskHandler{ask: ask}
}

type askReq struct {
	Question string `json:"question"`
}

type askResp struct {
	Answer  string            `json:"answer"`
	Sources []types.SourceRef `json:"sources"`
}

// POST /api/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", errors.New("question is required"))
		return
	}

	out := h.ask.Ask(c.Request.Context(), req.Question)
	if out.Kind == types.OutcomeError {
		response.RespondError(c, http.StatusInternalServerError, "ask_failed", errors.New(out.Answer))
		return
	}

	sources := out.Sources
	if sources == nil {
		sources = []types.SourceRef{}
	}
	response.RespondOK(c, askResp{Answer: out.Answer, Sources: sources})
}
