package database

import (
	"context"
	"database/sql"
	"fmt"

	"onsdagar/pkg/models"
)

// ReplaceCards swaps the cards table contents for cards in one transaction,
// so the table always mirrors the latest db.json.
func ReplaceCards(ctx context.Context, db *sql.DB, cards []models.Card) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (name, image_url, legality, card_type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		  image_url = excluded.image_url,
		  legality = excluded.legality,
		  card_type = excluded.card_type
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		if _, err := stmt.ExecContext(ctx, c.Name, c.ImageURL, c.Legality, c.CardType); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListCards returns every card ordered by name, optionally filtered by type.
func ListCards(ctx context.Context, db *sql.DB, cardType string) ([]models.Card, error) {
	query := `SELECT name, image_url, legality, card_type FROM cards`
	var args []any
	if cardType != "" {
		query += ` WHERE card_type = ?`
		args = append(args, cardType)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.Name, &c.ImageURL, &c.Legality, &c.CardType); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
