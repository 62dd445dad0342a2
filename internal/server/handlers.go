package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-studyguide/internal/history"
)

// errNoStore answers history routes when persistence is not wired.
var errNoStore = errors.New("history is not available")

type analyzeRequest struct {
	VideoURL string `json:"videoUrl"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		respondError(c, http.StatusBadRequest, codeBadRequest, errors.New("videoUrl is required"))
		return
	}

	res, err := s.analyzer.AnalyzeURL(c.Request.Context(), req.VideoURL)
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("video_url", req.VideoURL), zap.Error(err))
		respondErr(c, err)
		return
	}
	c.Header("X-Analysis-Mode", string(res.Mode))
	respondOK(c, res.Material)
}

func (s *Server) listHistory(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusServiceUnavailable, codeNotConfigured, errNoStore)
		return
	}

	limit := history.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, codeBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	items, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	if items == nil {
		items = []history.Summary{}
	}
	respondOK(c, items)
}

func (s *Server) getHistory(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusServiceUnavailable, codeNotConfigured, errNoStore)
		return
	}
	m, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, m)
}

func (s *Server) deleteHistory(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusServiceUnavailable, codeNotConfigured, errNoStore)
		return
	}
	id := c.Param("id")
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}
