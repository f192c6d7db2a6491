package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nhollis/docchat/internal/pkg/errcode"
	"github.com/nhollis/docchat/internal/pkg/response"
	"github.com/nhollis/docchat/internal/service"
	"github.com/nhollis/docchat/internal/session"
)

type ChatHandler struct {
	chat     *service.ChatService
	sessions *session.Store
}

func NewChatHandler(chat *service.ChatService, sessions *session.Store) *ChatHandler {
	return &ChatHandler{chat: chat, sessions: sessions}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		response.Error(c, errcode.ErrInvalid, "question required")
		return
	}
	sessionID := getSessionID(c)
	state, err := h.sessions.Get(sessionID)
	if err != nil {
		handleError(c, err)
		return
	}
	answer, err := h.chat.Ask(c.Request.Context(), state, question)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.sessions.Put(sessionID, state); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"answer":              answer.Answer,
		"answer_with_sources": answer.AnswerWithSources,
		"context":             answer.Context,
		"links":               answer.Links,
		"suggestions":         answer.Suggestions,
		"history":             state.History,
	})
}

func (h *ChatHandler) Reset(c *gin.Context) {
	sessionID := getSessionID(c)
	state, err := h.sessions.Get(sessionID)
	if err != nil {
		handleError(c, err)
		return
	}
	state.Reset()
	if err := h.sessions.Put(sessionID, state); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *ChatHandler) History(c *gin.Context) {
	state, err := h.sessions.Get(getSessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"history":          state.History,
		"transcript":       state.Transcript,
		"recent_questions": state.RecentQuestions,
	})
}

func (h *ChatHandler) Export(c *gin.Context) {
	state, err := h.sessions.Get(getSessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "chat_export.txt"))
	c.Data(200, "text/plain; charset=utf-8", []byte(state.ExportText()))
}
