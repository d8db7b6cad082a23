package events

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"onsdagar/pkg/models"
	"onsdagar/pkg/utils"
)

// Missing is a player whose decklist is not on disk.
type Missing struct {
	Date   string
	Player string
	// Path is the recorded decklist path, empty when none was recorded.
	Path string
}

// SaveDecklist writes text as the player's decklist for the event on date
// and records its path in the event.
func (s *Store) SaveDecklist(date, player, text string) (string, error) {
	ev, err := s.Load(date)
	if err != nil {
		return "", err
	}
	info, ok := ev.PlayerInfo[player]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrUnknownPlayer, player, date)
	}

	text = normalizeDecklist(text)
	if text == "" {
		return "", errors.New("decklist is empty")
	}

	rel, err := s.decklistPath(date, player, ev.PlayerInfo)
	if err != nil {
		return "", err
	}
	if err := utils.WriteFileAtomic(filepath.Join(s.Root, filepath.FromSlash(rel)), []byte(text)); err != nil {
		return "", fmt.Errorf("write decklist: %w", err)
	}

	info.Decklist = rel
	ev.PlayerInfo[player] = info
	if err := s.save(s.Path(date), ev); err != nil {
		return "", err
	}
	s.Logger.Info("decklist saved", zap.String("player", player), zap.String("path", rel))
	return rel, nil
}

// decklistPath picks the file for player's decklist, relative to Root.
// Players whose names slugify alike ("Åsa", "Asa") get numbered files
// instead of sharing one.
func (s *Store) decklistPath(date, player string, info map[string]models.PlayerEventInfo) (string, error) {
	slug := utils.Slugify(player)
	if slug == "" {
		return "", fmt.Errorf("cannot derive file name for player %q", player)
	}
	dir, err := filepath.Rel(s.Root, filepath.Join(s.DecklistsDir, date))
	if err != nil {
		return "", fmt.Errorf("decklist dir: %w", err)
	}
	dir = filepath.ToSlash(dir)

	taken := make(map[string]bool, len(info))
	for p, pi := range info {
		if p != player && pi.Decklist != "" {
			taken[pi.Decklist] = true
		}
	}
	rel := path.Join(dir, slug+".txt")
	for n := 2; taken[rel]; n++ {
		rel = path.Join(dir, fmt.Sprintf("%s-%d.txt", slug, n))
	}
	return rel, nil
}

// MissingDecklists lists players without a decklist file. An empty date
// checks every event.
func (s *Store) MissingDecklists(date string) ([]Missing, error) {
	dates := []string{date}
	if date == "" {
		var err error
		if dates, err = s.Dates(); err != nil {
			return nil, err
		}
	}

	var out []Missing
	for _, d := range dates {
		ev, err := s.Load(d)
		if err != nil {
			return nil, err
		}
		players := make([]string, 0, len(ev.PlayerInfo))
		for p := range ev.PlayerInfo {
			players = append(players, p)
		}
		sort.Strings(players)

		for _, p := range players {
			rel := ev.PlayerInfo[p].Decklist
			if rel != "" {
				_, err := os.Stat(filepath.Join(s.Root, filepath.FromSlash(rel)))
				if err == nil {
					continue
				}
				if !errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("stat decklist: %w", err)
				}
			}
			out = append(out, Missing{Date: d, Player: p, Path: rel})
		}
	}
	return out, nil
}

func normalizeDecklist(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := strings.Join(lines, "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
