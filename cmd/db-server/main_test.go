package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onsdagar/internal/cardmatch"
	"onsdagar/pkg/database"
	"onsdagar/pkg/models"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := cardmatch.New([]models.Card{{Name: "Brainstorm"}})
	r := newRouter(m, "files/db.json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":"files/db.json","cards":1}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards/brainstorm", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoadSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cards.db")

	db, err := database.Open(database.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.ReplaceCards(ctx, db, []models.Card{
		{Name: "Wasteland", Legality: "legal", CardType: models.CardTypeLand},
		{Name: "Brainstorm", Legality: "legal", CardType: models.CardTypeOther},
	}))
	require.NoError(t, db.Close())

	m, err := loadSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	card, ok := m.Exact("wasteland")
	require.True(t, ok)
	assert.Equal(t, models.CardTypeLand, card.CardType)
}
