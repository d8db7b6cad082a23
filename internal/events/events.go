// Package events manages the event records and decklist files under the
// input directory.
package events

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"onsdagar/pkg/models"
	"onsdagar/pkg/utils"
)

const (
	DateLayout    = "2006-01-02"
	DefaultRounds = 4
	namePrefix    = "Onsdagstävling "
)

var (
	ErrEventExists   = errors.New("event already exists")
	ErrEventNotFound = errors.New("event not found")
	ErrUnknownPlayer = errors.New("player not in event")
	ErrNameTaken     = errors.New("player name already used in event")
)

// Store reads and writes event records under EventsDir and decklists under
// DecklistsDir. Decklist paths recorded in events are relative to Root.
type Store struct {
	Root         string
	EventsDir    string
	DecklistsDir string
	Logger       *zap.Logger
}

// NewStore uses the default layout: Root/events and Root/decklists.
func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Root:         root,
		EventsDir:    filepath.Join(root, "events"),
		DecklistsDir: filepath.Join(root, "decklists"),
		Logger:       logger,
	}
}

// Path returns the record path for the event held on date.
func (s *Store) Path(date string) string {
	return filepath.Join(s.EventsDir, date+".json")
}

// NewEvent builds an empty record with one blank entry per player and
// matches blank match slots.
func NewEvent(date string, matches int, players []string) models.Event {
	ev := models.Event{
		Name:       namePrefix + date,
		Date:       date,
		Rounds:     DefaultRounds,
		PlayerInfo: make(map[string]models.PlayerEventInfo, len(players)),
		Matches:    make([]models.Match, 0, matches),
	}
	for _, p := range players {
		ev.PlayerInfo[p] = models.PlayerEventInfo{}
	}
	for i := 0; i < matches; i++ {
		ev.Matches = append(ev.Matches, models.Match{})
	}
	return ev
}

// Create writes a new event record. An existing record is only replaced
// when force is set.
func (s *Store) Create(date string, matches int, players []string, force bool) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	if matches < 0 {
		return "", fmt.Errorf("invalid match count %d", matches)
	}

	path := s.Path(date)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrEventExists, path)
		}
	}

	if err := s.save(path, NewEvent(date, matches, players)); err != nil {
		return "", err
	}
	s.Logger.Info("event created", zap.String("path", path), zap.Int("players", len(players)), zap.Int("matches", matches))
	return path, nil
}

// Load reads the event held on date.
func (s *Store) Load(date string) (models.Event, error) {
	return s.load(s.Path(date))
}

func (s *Store) load(path string) (models.Event, error) {
	var ev models.Event
	if err := utils.ReadJSON(path, &ev); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ev, fmt.Errorf("%w: %s", ErrEventNotFound, path)
		}
		return ev, fmt.Errorf("load event: %w", err)
	}
	if ev.PlayerInfo == nil {
		ev.PlayerInfo = map[string]models.PlayerEventInfo{}
	}
	return ev, nil
}

func (s *Store) save(path string, ev models.Event) error {
	if err := utils.WriteJSON(path, ev, "    "); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Dates returns the dates of every stored event, oldest first.
func (s *Store) Dates() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.EventsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	dates := make([]string, 0, len(files))
	for _, f := range files {
		dates = append(dates, strings.TrimSuffix(filepath.Base(f), ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}
