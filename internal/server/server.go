// Package server exposes the classifier over a small JSON API.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/history"
	"github.com/swibrow/intent/internal/text"
)

// Recorder persists classified phrases. *history.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, e history.Entry) error
}

type Handler struct {
	classifier *classifier.Classifier
	recorder   Recorder
	logger     log.FieldLogger
}

func NewHandler(c *classifier.Classifier, rec Recorder, logger log.FieldLogger) *Handler {
	return &Handler{classifier: c, recorder: rec, logger: logger}
}

// NewRouter wires the API routes onto a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/classify", h.ClassifyQueryHandler)
		v1.POST("/classify", h.ClassifyHandler)
		v1.GET("/categories", h.CategoriesHandler)
	}
	return router
}

type classifyRequest struct {
	Phrase string `json:"phrase"`
}

type classifyResponse struct {
	Kind     string             `json:"kind"`
	Labels   []string           `json:"labels"`
	Reply    string             `json:"reply,omitempty"`
	Response string             `json:"response"`
	Matches  []classifier.Match `json:"matches,omitempty"`
}

func (h *Handler) ClassifyHandler(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	h.classify(c, req.Phrase)
}

func (h *Handler) ClassifyQueryHandler(c *gin.Context) {
	h.classify(c, c.Query("q"))
}

func (h *Handler) classify(c *gin.Context, raw string) {
	// Blank phrases are a NoMatch like any other, not a client error.
	phrase := strings.TrimSpace(text.Normalize(raw))
	res := h.classifier.Classify(phrase)
	resp := classifyResponse{
		Kind:     res.Kind.String(),
		Labels:   res.Labels,
		Reply:    res.Reply,
		Response: classifier.Format(res),
		Matches:  res.Matches,
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}

	if h.recorder != nil && phrase != "" {
		err := h.recorder.Save(c.Request.Context(), history.Entry{
			Phrase:   phrase,
			Response: resp.Response,
			Kind:     resp.Kind,
			Labels:   res.Labels,
		})
		if err != nil {
			h.logger.WithError(err).Warn("recording classification")
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *Handler) CategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.classifier.Categories()})
}
