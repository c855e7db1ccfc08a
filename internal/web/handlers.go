package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/storage"
)

type createCardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Notes string `json:"notes"`
}

type reviewRequest struct {
	Quality *int `json:"quality" binding:"required"`
}

type rowErrorResponse struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported []domain.Card      `json:"imported"`
	Errors   []rowErrorResponse `json:"errors"`
}

func values(cards []*domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = *c
	}
	return out
}

// listCards handles GET /cards?q=&tag=&due=.
func (s *Server) listCards(c *gin.Context) {
	q := deck.Query{Text: c.Query("q"), Tag: c.Query("tag")}
	if raw := c.Query("due"); raw != "" {
		due, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		q.OnlyDue = due
	}

	s.mu.Lock()
	cards := values(s.deck.Select(q))
	s.mu.Unlock()
	c.JSON(http.StatusOK, cards)
}

func (s *Server) getCard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) createCard(c *gin.Context) {
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.CreateCard(req.Front, req.Back, req.Notes)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) updateCard(c *gin.Context) {
	var req deck.CardUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.UpdateCard(c.Param("id"), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) deleteCard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deck.DeleteCard(c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) retagCard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.Retag(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) clearTags(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.ClearTags(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) reviewCard(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.deck.Review(c.Param("id"), *req.Quality)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) history(c *gin.Context) {
	rec, ok := s.store.(storage.HistoryRecorder)
	if !ok {
		respondError(c, http.StatusNotImplemented, "unsupported", errors.New("the storage backend keeps no review history"))
		return
	}
	logs, err := rec.History(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if logs == nil {
		logs = []domain.ReviewLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (s *Server) listTags(c *gin.Context) {
	s.mu.Lock()
	tags := s.deck.Tags()
	s.mu.Unlock()
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, tags)
}

// importTSV handles POST /import with a TSV request body. Rows that were
// rejected are listed next to the cards that were created.
func (s *Server) importTSV(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.mu.Lock()
	created, err := s.deck.ImportTSV(string(raw))
	s.mu.Unlock()

	resp := importResponse{Imported: values(created), Errors: []rowErrorResponse{}}
	if err != nil {
		var ie *domain.ImportError
		if !errors.As(err, &ie) {
			respondDomainError(c, err)
			return
		}
		for _, row := range ie.Rows {
			resp.Errors = append(resp.Errors, rowErrorResponse{Line: row.Line, Message: row.Err.Error()})
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) exportTSV(c *gin.Context) {
	s.mu.Lock()
	out := deck.ExportTSV(s.deck.Cards())
	s.mu.Unlock()
	c.Header("Content-Disposition", `attachment; filename="cards.tsv"`)
	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", []byte(out))
}

func (s *Server) save(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deck.Save(s.store); err != nil {
		s.log.Error("save failed", "error", err)
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
