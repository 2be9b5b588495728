// Package api serves the question answering workflow over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/graphchat/history"
	"github.com/yaoapp/graphchat/pattern"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
)

// Server the HTTP handlers
type Server struct {
	service Service
	history history.Manager
	allows  map[string]bool
}

// New create a server, allows lists the hosts permitted to call across domains
func New(service Service, hist history.Manager, allows ...string) *Server {
	s := &Server{service: service, history: hist, allows: map[string]bool{}}
	for _, allow := range allows {
		s.allows[allow] = true
	}
	return s
}

// Routes register the handlers under the path
func (s *Server) Routes(router *gin.Engine, path string) {
	group := router.Group(path)
	if len(s.allows) > 0 {
		group.Use(s.crossDomain)
		group.OPTIONS("/*any", func(c *gin.Context) { c.AbortWithStatus(http.StatusNoContent) })
	}

	group.POST("/ask", s.ask)
	group.POST("/query", s.query)
	group.POST("/pattern", s.pattern)
	group.GET("/history/:session", s.listHistory)
	group.DELETE("/history/:session", s.clearHistory)
}

func (s *Server) ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		respondError(c, http.StatusBadRequest, "question is required")
		return
	}

	if req.Session == "" && s.history != nil {
		req.Session = history.ID()
	}

	ans, err := s.service.Answer(c.Request.Context(), req.Question, req.Session)
	if err != nil {
		log.With(log.F{"session": req.Session}).Error("api ask: %s", err.Error())
		respondError(c, status(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, ans)
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondError(c, http.StatusBadRequest, "query is required")
		return
	}

	bindings, err := s.service.Query(c.Request.Context(), req.Query, req.Params)
	if err != nil {
		respondError(c, status(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, bindings)
}

func (s *Server) pattern(c *gin.Context) {
	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, pattern.Extract(req.Query))
}

func (s *Server) listHistory(c *gin.Context) {
	if s.history == nil {
		respondError(c, http.StatusNotFound, "history is not enabled")
		return
	}

	entries, err := s.history.List(c.Param("session"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) clearHistory(c *gin.Context) {
	if s.history == nil {
		respondError(c, http.StatusNotFound, "history is not enabled")
		return
	}

	if err := s.history.Clear(c.Param("session")); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// status maps an error kind to the response status
func status(err error) int {
	switch types.KindOf(err) {
	case types.StoreUnreachable:
		return http.StatusServiceUnavailable
	case types.StoreExecutionError:
		return http.StatusBadRequest
	case types.TransportFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"code": code, "message": message})
	c.Abort()
}
