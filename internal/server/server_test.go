package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/reclaim/internal/config"
	"github.com/campuskit/reclaim/internal/store"
)

type fixedLLM struct {
	response string
}

func (f *fixedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	srv := New(st, config.Default(), &fixedLLM{response: "90"})
	t.Cleanup(srv.Close)

	return srv, srv.SetupRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItem(t *testing.T, r *gin.Engine, title, category, location, typ string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/items", gin.H{
		"title":    title,
		"category": category,
		"location": location,
		"type":     typ,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	require.NotEmpty(t, item.ID)
	return item.ID
}

func TestCreateItemValidation(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/items", gin.H{"title": "Keys"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/items", gin.H{
		"title": "Keys", "category": "Accessories", "type": "stolen",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItem(t *testing.T) {
	_, r := newTestServer(t)
	id := createItem(t, r, "Black Umbrella", "Accessories", "Science Hall", "lost")

	w := doJSON(t, r, http.MethodGet, "/items/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/items/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListItems(t *testing.T) {
	_, r := newTestServer(t)
	createItem(t, r, "Black Umbrella", "Accessories", "Science Hall", "lost")
	createItem(t, r, "Red Umbrella", "Accessories", "Science Hall", "found")

	w := doJSON(t, r, http.MethodGet, "/items?type=lost", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []struct {
			Type string `json:"type"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "lost", resp.Items[0].Type)

	w = doJSON(t, r, http.MethodGet, "/items?type=broken", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestions(t *testing.T) {
	_, r := newTestServer(t)
	lostID := createItem(t, r, "Blue Nike Backpack", "Bags", "Main Library", "lost")
	createItem(t, r, "Blue Nike Bag", "Bags", "Main Library", "found")

	w := doJSON(t, r, http.MethodGet, "/items/"+lostID+"/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Threshold float64 `json:"threshold"`
		Count     int     `json:"count"`
		Matches   []struct {
			Similarity float64 `json:"similarity"`
			Confidence string  `json:"confidence"`
			Item       struct {
				Type string `json:"type"`
			} `json:"item"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60.0, resp.Threshold)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 90.0, resp.Matches[0].Similarity)
	assert.Equal(t, "high", resp.Matches[0].Confidence)
	assert.Equal(t, "found", resp.Matches[0].Item.Type)
}

func TestSuggestionsUnknownItemIsEmpty(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/items/ghost/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestSuggestionsThresholdValidation(t *testing.T) {
	_, r := newTestServer(t)
	id := createItem(t, r, "Black Umbrella", "Accessories", "Science Hall", "lost")

	for _, q := range []string{"threshold=abc", "threshold=-1", "threshold=101"} {
		w := doJSON(t, r, http.MethodGet, "/items/"+id+"/suggestions?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAutoMatchPersists(t *testing.T) {
	_, r := newTestServer(t)
	lostID := createItem(t, r, "Blue Nike Backpack", "Bags", "Main Library", "lost")
	foundID := createItem(t, r, "Blue Nike Bag", "Bags", "Main Library", "found")

	w := doJSON(t, r, http.MethodPost, "/items/"+lostID+"/auto-match", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	// Re-running must not create a second record for the same pair.
	w = doJSON(t, r, http.MethodPost, "/items/"+lostID+"/auto-match", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, id := range []string{lostID, foundID} {
		w = doJSON(t, r, http.MethodGet, "/items/"+id+"/matches", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var matches struct {
			Count   int `json:"count"`
			Matches []struct {
				LostItemID  string  `json:"lost_item_id"`
				FoundItemID string  `json:"found_item_id"`
				Similarity  float64 `json:"similarity"`
				Status      string  `json:"status"`
				MatchType   string  `json:"match_type"`
			} `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
		require.Equal(t, 1, matches.Count)
		assert.Equal(t, lostID, matches.Matches[0].LostItemID)
		assert.Equal(t, foundID, matches.Matches[0].FoundItemID)
		assert.Equal(t, "pending", matches.Matches[0].Status)
		assert.Equal(t, "ai_generated", matches.Matches[0].MatchType)
	}
}

func TestHealth(t *testing.T) {
	_, r := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
