// Package web serves the deck over a JSON HTTP API.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/logger"
	"github.com/conorfennell/flashcards/internal/storage"
)

// Server holds the dependencies for the HTTP server. Requests are
// serialized on mu because a Deck is not safe for concurrent use.
type Server struct {
	mu     sync.Mutex
	deck   *deck.Deck
	store  storage.Store
	log    *logger.Logger
	engine *gin.Engine
}

// NewServer creates and configures a new server. Changes stay in memory
// until a client calls POST /save.
func NewServer(d *deck.Deck, store storage.Store, log *logger.Logger) *Server {
	s := &Server{
		deck:   d,
		store:  store,
		log:    log,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.engine.GET("/healthcheck", healthCheck)

	cards := s.engine.Group("/cards")
	{
		cards.GET("", s.listCards)
		cards.POST("", s.createCard)
		cards.GET("/:id", s.getCard)
		cards.PATCH("/:id", s.updateCard)
		cards.DELETE("/:id", s.deleteCard)
		cards.POST("/:id/retag", s.retagCard)
		cards.DELETE("/:id/tags", s.clearTags)
		cards.POST("/:id/review", s.reviewCard)
		cards.GET("/:id/history", s.history)
	}

	s.engine.GET("/tags", s.listTags)
	s.engine.POST("/import", s.importTSV)
	s.engine.GET("/export", s.exportTSV)
	s.engine.POST("/save", s.save)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
