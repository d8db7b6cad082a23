package cardmatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onsdagar/pkg/models"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(New(testCards)).RegisterRoutes(r.Group("/cards"))
	return r
}

func serve(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_GetByName(t *testing.T) {
	r := newRouter()

	w := serve(t, r, "/cards/"+url.PathEscape("Goblin Matron"))
	require.Equal(t, http.StatusOK, w.Code)
	var card models.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, models.CardTypeCreature, card.CardType)

	w = serve(t, r, "/cards/Black%20Lotus")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Search(t *testing.T) {
	r := newRouter()

	w := serve(t, r, "/cards?q=wastelnd")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Query string  `json:"query"`
		Items []Match `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Items)
	assert.Equal(t, "Wasteland", body.Items[0].Card.Name)

	w = serve(t, r, "/cards?q=zzzzzzzz&threshold=0.99")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"query":"zzzzzzzz","items":[]}`, w.Body.String())

	w = serve(t, r, "/cards?q=x&threshold=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_List(t *testing.T) {
	r := newRouter()

	w := serve(t, r, "/cards?limit=2&offset=1")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int           `json:"total"`
		Items []models.Card `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(testCards), body.Total)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "Lim-Dûl's Vault", body.Items[0].Name)

	w = serve(t, r, "/cards?offset=100")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_LegalityFilter(t *testing.T) {
	r := newRouter()

	w := serve(t, r, "/cards?legality=banned")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int           `json:"total"`
		Items []models.Card `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Mind Twist", list.Items[0].Name)

	w = serve(t, r, "/cards?q=goblin&threshold=0.3&legality=banned")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"query":"goblin","items":[]}`, w.Body.String())
}

func TestHandler_Legal(t *testing.T) {
	r := newRouter()

	w := serve(t, r, "/cards/"+url.PathEscape("mind twst")+"/legal")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Card  models.Card `json:"card"`
		Legal bool        `json:"legal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Mind Twist", body.Card.Name)
	assert.False(t, body.Legal)

	w = serve(t, r, "/cards/Brainstorm/legal")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Legal)
}
