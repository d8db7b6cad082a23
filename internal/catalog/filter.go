package catalog

import (
	"slices"
	"strconv"
	"strings"

	"onsdagar/pkg/models"
)

// GateOrder selects where the name-uniqueness gate runs among the
// rejection gates. Both orders produce the same output: uniqueness is only
// ever claimed by a direct accept, and every other gate is a pure predicate
// on the entry itself.
type GateOrder int

const (
	// UniqueFirst checks "name already accepted" right after the finish gate.
	UniqueFirst GateOrder = iota
	// UniqueLast checks it after the legality, set and basic-land gates.
	UniqueLast
)

// Reject reasons, used as keys in Stats.Rejected.
const (
	RejectNoName    = "no_name"
	RejectFinish    = "no_nonfoil"
	RejectDuplicate = "duplicate"
	RejectLegality  = "not_legal"
	RejectSet       = "set"
	RejectBasic     = "basic_land"
	RejectStashed   = "white_border_duplicate"
)

const notLegal = "not_legal"

var basicLands = []string{"Plains", "Island", "Swamp", "Mountain", "Forest"}

// Options configures a filter run.
type Options struct {
	LegalSets []string
	Format    string
	Order     GateOrder
	// ImageVariant picks the image_uris key copied into the output.
	ImageVariant string
}

// Stats summarises a filter run.
type Stats struct {
	Seen     int
	Accepted int
	Promoted int
	Rejected map[string]int
}

// Filter runs the typed database pipeline and returns cards sorted by name.
func Filter(entries []Entry, opts Options) ([]models.Card, Stats) {
	if opts.ImageVariant == "" {
		opts.ImageVariant = "border_crop"
	}
	p := newPipeline(opts, false, func(e Entry) models.Card {
		return models.Card{
			Name:     e.Name,
			ImageURL: e.Image(opts.ImageVariant),
			Legality: e.Legality(opts.Format),
			CardType: Classify(e.TypeLine),
		}
	})
	return p.run(entries)
}

// FilterPrices runs the price pipeline: the same gates plus exclusion of the
// basic lands, with the eur trend price attached.
func FilterPrices(entries []Entry, opts Options) ([]models.PricedCard, Stats) {
	if opts.ImageVariant == "" {
		opts.ImageVariant = "normal"
	}
	p := newPipeline(opts, true, func(e Entry) models.PricedCard {
		return models.PricedCard{
			Name:       e.Name,
			ImageURL:   e.Image(opts.ImageVariant),
			PriceTrend: ParsePrice(e.Prices["eur"]),
		}
	})
	return p.run(entries)
}

// Classify derives the card type from a type line. "Land" wins over
// "Creature" so that e.g. Dryad Arbor is a land.
func Classify(typeLine string) string {
	switch {
	case strings.Contains(typeLine, "Land"):
		return models.CardTypeLand
	case strings.Contains(typeLine, "Creature"):
		return models.CardTypeCreature
	default:
		return models.CardTypeOther
	}
}

// ParsePrice parses a decimal price string. Empty or malformed input yields nil.
func ParsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CountMatches reports whether n equals the expected total. A non-positive
// expected value disables the check.
func CountMatches(n, expected int) bool {
	return expected <= 0 || n == expected
}

type gate func(e Entry) (reason string, ok bool)

type pipeline[T any] struct {
	gates []gate
	build func(Entry) T

	// used holds names claimed by a direct (non-white) accept.
	used     map[string]bool
	accepted []named[T]
	// stash holds the first white-bordered candidate per name, in
	// first-seen order.
	stash      map[string]T
	stashOrder []string
	stats      Stats
}

type named[T any] struct {
	name string
	card T
}

func newPipeline[T any](opts Options, excludeBasics bool, build func(Entry) T) *pipeline[T] {
	p := &pipeline[T]{
		build: build,
		used:  make(map[string]bool),
		stash: make(map[string]T),
		stats: Stats{Rejected: make(map[string]int)},
	}

	legal := make(map[string]bool, len(opts.LegalSets))
	for _, s := range opts.LegalSets {
		legal[s] = true
	}

	finish := func(e Entry) (string, bool) {
		return RejectFinish, e.HasFinish("nonfoil")
	}
	unique := func(e Entry) (string, bool) {
		return RejectDuplicate, !p.used[e.Name]
	}
	legality := func(e Entry) (string, bool) {
		return RejectLegality, e.Legality(opts.Format) != notLegal
	}
	inSet := func(e Entry) (string, bool) {
		return RejectSet, legal[e.Set]
	}
	basic := func(e Entry) (string, bool) {
		return RejectBasic, !slices.Contains(basicLands, e.Name)
	}

	rest := []gate{legality, inSet}
	if excludeBasics {
		rest = append(rest, basic)
	}

	p.gates = []gate{finish}
	switch opts.Order {
	case UniqueLast:
		p.gates = append(p.gates, rest...)
		p.gates = append(p.gates, unique)
	default:
		p.gates = append(p.gates, unique)
		p.gates = append(p.gates, rest...)
	}
	return p
}

func (p *pipeline[T]) run(entries []Entry) ([]T, Stats) {
	// Pass 1: direct accepts and white-border stash.
	for _, e := range entries {
		p.stats.Seen++
		p.consider(e)
	}

	// Pass 2: promote stashed white-border cards nobody else claimed.
	for _, name := range p.stashOrder {
		if p.used[name] {
			p.stats.Rejected[RejectStashed]++
			continue
		}
		p.accepted = append(p.accepted, named[T]{name: name, card: p.stash[name]})
		p.used[name] = true
		p.stats.Promoted++
	}

	slices.SortStableFunc(p.accepted, func(a, b named[T]) int {
		return strings.Compare(a.name, b.name)
	})

	out := make([]T, 0, len(p.accepted))
	for _, a := range p.accepted {
		out = append(out, a.card)
	}
	p.stats.Accepted = len(out)
	return out, p.stats
}

func (p *pipeline[T]) consider(e Entry) {
	if e.Name == "" {
		p.stats.Rejected[RejectNoName]++
		return
	}
	for _, g := range p.gates {
		if reason, ok := g(e); !ok {
			p.stats.Rejected[reason]++
			return
		}
	}

	card := p.build(e)
	if e.BorderColor == "white" {
		if _, ok := p.stash[e.Name]; ok {
			p.stats.Rejected[RejectStashed]++
			return
		}
		p.stash[e.Name] = card
		p.stashOrder = append(p.stashOrder, e.Name)
		return
	}

	p.accepted = append(p.accepted, named[T]{name: e.Name, card: card})
	p.used[e.Name] = true
}
