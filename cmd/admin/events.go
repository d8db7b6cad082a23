package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"onsdagar/internal/events"
)

func (a *app) eventStore() *events.Store {
	s := events.NewStore(a.cfg.InputDir, a.logger)
	s.EventsDir = a.cfg.EventsDir()
	s.DecklistsDir = a.cfg.DecklistsDir()
	return s
}

func (a *app) eventCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "event <date> <matches> <players...>",
		Short: "Create an empty event record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("matches must be a number, got %q", args[1])
			}
			path, err := a.eventStore().Create(args[0], matches, args[2:], force)
			if err != nil {
				if errors.Is(err, events.ErrEventExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}
			a.printf(cmd, "Created %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing event record")
	return cmd
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a player across every event record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := a.eventStore().RenameAll(args[0], args[1])
			if err != nil {
				return err
			}
			if len(changed) == 0 {
				a.printf(cmd, "No events mention %q", args[0])
				return nil
			}
			for _, d := range changed {
				a.printf(cmd, "Updated %s", d)
			}
			a.printf(cmd, "Renamed %q to %q in %d events", args[0], args[1], len(changed))
			return nil
		},
	}
}

func (a *app) decklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decklist",
		Short: "Track decklist text files for event players",
	}
	cmd.AddCommand(a.decklistSaveCmd(), a.decklistMissingCmd())
	return cmd
}

func (a *app) decklistSaveCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save <date> <player>",
		Short: "Save a decklist from the clipboard (or --file, - for stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDecklist(cmd, file)
			if err != nil {
				return err
			}
			rel, err := a.eventStore().SaveDecklist(args[0], args[1], text)
			if err != nil {
				return err
			}
			a.printf(cmd, "Saved decklist for %s to %s", args[1], rel)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the decklist from a file instead of the clipboard")
	return cmd
}

func readDecklist(cmd *cobra.Command, file string) (string, error) {
	switch file {
	case "":
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func (a *app) decklistMissingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missing [date]",
		Short: "List players without a saved decklist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			missing, err := a.eventStore().MissingDecklists(date)
			if err != nil {
				return err
			}
			if len(missing) == 0 {
				a.printf(cmd, "All decklists present")
				return nil
			}
			for _, m := range missing {
				if m.Path != "" {
					a.printf(cmd, "%s  %s  (missing file %s)", m.Date, m.Player, m.Path)
					continue
				}
				a.printf(cmd, "%s  %s", m.Date, m.Player)
			}
			return nil
		},
	}
}
