// Package cardmatch looks up cards in the generated database by fuzzy name.
package cardmatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"onsdagar/pkg/models"
	"onsdagar/pkg/utils"
)

var ErrEmptyDatabase = errors.New("card database is empty")

// Match is a card with its similarity to the query, in [0, 1].
type Match struct {
	Card       models.Card `json:"card"`
	Similarity float64     `json:"similarity"`
	Distance   int         `json:"distance"`
}

type Matcher struct {
	cards []models.Card
	keys  []string
}

func New(cards []models.Card) *Matcher {
	m := &Matcher{cards: cards, keys: make([]string, len(cards))}
	for i, c := range cards {
		m.keys[i] = Normalize(c.Name)
	}
	return m
}

// Load reads a db.json document.
func Load(path string) (*Matcher, error) {
	var cards []models.Card
	if err := utils.ReadJSON(path, &cards); err != nil {
		return nil, fmt.Errorf("load card database: %w", err)
	}
	return New(cards), nil
}

func (m *Matcher) Len() int { return len(m.cards) }

func (m *Matcher) Cards() []models.Card { return m.cards }

// Exact finds the card whose normalized name equals the normalized query.
func (m *Matcher) Exact(query string) (models.Card, bool) {
	q := Normalize(query)
	for i, k := range m.keys {
		if k == q {
			return m.cards[i], true
		}
	}
	return models.Card{}, false
}

// Best returns the single most similar card.
func (m *Matcher) Best(query string) (Match, error) {
	if len(m.cards) == 0 {
		return Match{}, ErrEmptyDatabase
	}
	q := Normalize(query)

	var best Match
	found := false
	for i, k := range m.keys {
		sim, dist := similarity(q, k)
		if !found || sim > best.Similarity {
			best = Match{Card: m.cards[i], Similarity: sim, Distance: dist}
			found = true
		}
	}
	return best, nil
}

// Legal reports whether the closest match for query is legal in the
// format the database was built for.
func (m *Matcher) Legal(query string) (Match, bool, error) {
	best, err := m.Best(query)
	if err != nil {
		return Match{}, false, err
	}
	return best, best.Card.Legality == "legal", nil
}

// ByLegality returns every card with the given legality status, compared
// case-insensitively.
func (m *Matcher) ByLegality(legality string) []models.Card {
	want := strings.ToLower(strings.TrimSpace(legality))
	out := []models.Card{}
	for _, c := range m.cards {
		if strings.ToLower(strings.TrimSpace(c.Legality)) == want {
			out = append(out, c)
		}
	}
	return out
}

// Search returns cards at or above threshold, best first. limit <= 0 means
// no limit.
func (m *Matcher) Search(query string, threshold float64, limit int) ([]Match, error) {
	if len(m.cards) == 0 {
		return nil, ErrEmptyDatabase
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be between 0.0 and 1.0")
	}
	q := Normalize(query)

	var out []Match
	for i, k := range m.keys {
		sim, dist := similarity(q, k)
		if sim >= threshold {
			out = append(out, Match{Card: m.cards[i], Similarity: sim, Distance: dist})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FilterLegality keeps matches whose card has the given legality. An empty
// legality keeps everything. The result is never nil.
func FilterLegality(matches []Match, legality string) []Match {
	want := strings.ToLower(strings.TrimSpace(legality))
	out := make([]Match, 0, len(matches))
	for _, mt := range matches {
		if want == "" || strings.ToLower(mt.Card.Legality) == want {
			out = append(out, mt)
		}
	}
	return out
}

// Normalize drops leading quantities ("4 Brainstorm"), accents,
// punctuation and case, and collapses whitespace.
func Normalize(s string) string {
	s = strings.TrimLeftFunc(strings.TrimSpace(s), unicode.IsDigit)
	s = strings.ToLower(utils.FoldAccents(s))

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarity expects normalized input.
func similarity(a, b string) (float64, int) {
	if a == b {
		return 1, 0
	}
	ra, rb := []rune(a), []rune(b)
	dist := levenshtein(ra, rb)
	maxLen := max(len(ra), len(rb))

	sim := 1 - float64(dist)/float64(maxLen)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		sim = min(sim+0.1, 1)
	}
	return sim, dist
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
