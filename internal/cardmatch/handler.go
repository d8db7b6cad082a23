package cardmatch

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Matcher *Matcher
}

func NewHandler(m *Matcher) *Handler {
	return &Handler{Matcher: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search)            // GET /cards?q=&limit=&threshold=&legality=
	rg.GET("/:name", h.get)         // GET /cards/:name
	rg.GET("/:name/legal", h.legal) // GET /cards/:name/legal
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit := parseInt(c.Query("limit"), 20)
	legality := strings.TrimSpace(c.Query("legality"))

	if q == "" {
		offset := parseInt(c.Query("offset"), 0)
		cards := h.Matcher.Cards()
		if legality != "" {
			cards = h.Matcher.ByLegality(legality)
		}
		total := len(cards)
		start := min(max(offset, 0), total)
		end := total
		if limit > 0 {
			end = min(start+limit, total)
		}
		c.JSON(http.StatusOK, gin.H{
			"total":  total,
			"limit":  limit,
			"offset": start,
			"items":  cards[start:end],
		})
		return
	}

	threshold, err := strconv.ParseFloat(c.DefaultQuery("threshold", "0.6"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
		return
	}

	matches, err := h.Matcher.Search(q, threshold, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	matches = FilterLegality(matches, legality)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "items": matches})
}

func (h *Handler) legal(c *gin.Context) {
	best, legal, err := h.Matcher.Legal(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":      c.Param("name"),
		"card":       best.Card,
		"similarity": best.Similarity,
		"legal":      legal,
	})
}

func (h *Handler) get(c *gin.Context) {
	card, ok := h.Matcher.Exact(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
