package events

import (
	"fmt"

	"go.uber.org/zap"

	"onsdagar/pkg/models"
)

// RenamePlayer replaces from with to in ev's player info and matches.
// It reports whether anything changed.
func RenamePlayer(ev *models.Event, from, to string) (bool, error) {
	changed := false

	if info, ok := ev.PlayerInfo[from]; ok {
		if _, taken := ev.PlayerInfo[to]; taken {
			return false, fmt.Errorf("%w: %q in %s", ErrNameTaken, to, ev.Date)
		}
		delete(ev.PlayerInfo, from)
		ev.PlayerInfo[to] = info
		changed = true
	}

	for i := range ev.Matches {
		m := &ev.Matches[i]
		if m.Player1 == from {
			m.Player1 = to
			changed = true
		}
		if m.Player2 == from {
			m.Player2 = to
			changed = true
		}
	}
	return changed, nil
}

// RenameAll renames a player across every stored event. All records are
// checked before any is written, so a conflict leaves the tree untouched.
// It returns the dates of the events that changed.
func (s *Store) RenameAll(from, to string) ([]string, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("rename: names must not be empty")
	}
	if from == to {
		return nil, nil
	}

	dates, err := s.Dates()
	if err != nil {
		return nil, err
	}

	type pending struct {
		date string
		ev   models.Event
	}
	var todo []pending
	for _, d := range dates {
		ev, err := s.Load(d)
		if err != nil {
			return nil, err
		}
		changed, err := RenamePlayer(&ev, from, to)
		if err != nil {
			return nil, err
		}
		if changed {
			todo = append(todo, pending{date: d, ev: ev})
		}
	}

	out := make([]string, 0, len(todo))
	for _, p := range todo {
		if err := s.save(s.Path(p.date), p.ev); err != nil {
			return out, err
		}
		out = append(out, p.date)
	}
	s.Logger.Info("player renamed", zap.String("from", from), zap.String("to", to), zap.Int("events", len(out)))
	return out, nil
}
