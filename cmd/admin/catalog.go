package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"onsdagar/internal/cardmatch"
	"onsdagar/internal/catalog"
	"onsdagar/pkg/database"
	"onsdagar/pkg/utils"
)

func (a *app) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the upstream bulk card catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fetch(cmd)
		},
	}
}

func (a *app) fetch(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
	defer cancel()

	f := catalog.NewFetcher(a.cfg.Catalog.BulkDataURL, a.cfg.Catalog.BulkType, a.logger)
	info, err := f.Download(ctx, a.cfg.BulkPath())
	if err != nil {
		if errors.Is(err, catalog.ErrBulkDataNotFound) {
			return fmt.Errorf("no %q bulk data is published upstream: %w", a.cfg.Catalog.BulkType, err)
		}
		return fmt.Errorf("fetch bulk data: %w", err)
	}
	a.printf(cmd, "Downloaded %s (updated %s) to %s", info.Type, info.UpdatedAt.Format(time.DateOnly), a.cfg.BulkPath())
	return nil
}

func (a *app) loadCatalog() ([]catalog.Entry, error) {
	entries, err := catalog.LoadEntries(a.cfg.BulkPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("bulk catalog not found at %s, run `admin fetch` first", a.cfg.BulkPath())
	}
	return entries, err
}

func (a *app) filterOptions(order string) (catalog.Options, error) {
	opts := catalog.Options{
		LegalSets: a.cfg.Catalog.LegalSets,
		Format:    a.cfg.Catalog.Format,
	}
	switch order {
	case "", "unique-first":
		opts.Order = catalog.UniqueFirst
	case "unique-last":
		opts.Order = catalog.UniqueLast
	default:
		return opts, fmt.Errorf("unknown gate order %q (want unique-first or unique-last)", order)
	}
	return opts, nil
}

func (a *app) reportCount(cmd *cobra.Command, what string, n, expected int, stats catalog.Stats) {
	a.logger.Debug("filter stats",
		zap.Int("seen", stats.Seen),
		zap.Int("accepted", stats.Accepted),
		zap.Int("promoted_white_border", stats.Promoted),
		zap.Any("rejected", stats.Rejected),
	)
	a.printf(cmd, "%s updated with %d cards.", what, n)
	if !catalog.CountMatches(n, expected) {
		a.logger.Warn("card count differs from expected", zap.Int("count", n), zap.Int("expected", expected))
		a.printf(cmd, "Warning: The expected card count is %d. Please verify the database.", expected)
	}
}

func (a *app) dbCmd() *cobra.Command {
	var (
		order    string
		toSQLite bool
		fetch    bool
	)
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Build the card database (db.json) from the bulk catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fetch {
				if err := a.fetch(cmd); err != nil {
					return err
				}
			}
			opts, err := a.filterOptions(order)
			if err != nil {
				return err
			}
			entries, err := a.loadCatalog()
			if err != nil {
				return err
			}

			cards, stats := catalog.Filter(entries, opts)
			if err := utils.WriteJSON(a.cfg.CardDBPath(), cards, "  "); err != nil {
				return err
			}
			a.reportCount(cmd, "Card database", len(cards), a.cfg.Catalog.ExpectedCount, stats)

			if !toSQLite {
				return nil
			}
			db, err := database.Open(database.Config{Path: a.cfg.DBPath})
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.ReplaceCards(cmd.Context(), db, cards); err != nil {
				return fmt.Errorf("load cards into %s: %w", a.cfg.DBPath, err)
			}
			a.printf(cmd, "Loaded %d cards into %s", len(cards), a.cfg.DBPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", "unique-first", "where the duplicate-name gate runs: unique-first or unique-last")
	cmd.Flags().BoolVar(&toSQLite, "sqlite", false, "also load the cards into the sqlite table")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "download the bulk catalog first")
	return cmd
}

func (a *app) pricesCmd() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Build the price database (prices.json) from the bulk catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.filterOptions(order)
			if err != nil {
				return err
			}
			entries, err := a.loadCatalog()
			if err != nil {
				return err
			}

			cards, stats := catalog.FilterPrices(entries, opts)
			if err := utils.WriteJSON(a.cfg.PriceDBPath(), cards, "  "); err != nil {
				return err
			}
			a.reportCount(cmd, "Price database", len(cards), a.cfg.Catalog.ExpectedPriceCount, stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&order, "order", "unique-first", "where the duplicate-name gate runs: unique-first or unique-last")
	return cmd
}

func (a *app) lookupCmd() *cobra.Command {
	var (
		threshold float64
		limit     int
		best      bool
		legality  string
	)
	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "Fuzzy-search the card database by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cardmatch.Load(a.cfg.CardDBPath())
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("card database not found at %s, run `admin db` first", a.cfg.CardDBPath())
				}
				return err
			}
			if best {
				mt, legal, err := m.Legal(args[0])
				if err != nil {
					return err
				}
				verdict := "not legal"
				if legal {
					verdict = "legal"
				}
				a.printf(cmd, "%.2f  %s  (%s, %s)", mt.Similarity, mt.Card.Name, mt.Card.CardType, verdict)
				return nil
			}

			matches, err := m.Search(args[0], threshold, 0)
			if err != nil {
				return err
			}
			matches = cardmatch.FilterLegality(matches, legality)
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if len(matches) == 0 {
				a.printf(cmd, "No cards match %q", args[0])
				return nil
			}
			for _, mt := range matches {
				a.printf(cmd, "%.2f  %s  (%s, %s)", mt.Similarity, mt.Card.Name, mt.Card.CardType, mt.Card.Legality)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "minimum similarity (0-1)")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results")
	cmd.Flags().BoolVar(&best, "best", false, "print only the closest card and whether it is legal")
	cmd.Flags().StringVar(&legality, "legality", "", "only show cards with this legality (legal, banned, ...)")
	return cmd
}
