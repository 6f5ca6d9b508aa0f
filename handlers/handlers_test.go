package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/database"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	content *services.ContentService
	events  *services.EventService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := logger.NewNop()
	events := services.NewEventService(db, log)
	prefs := services.NewPreferenceService(db, log)
	popularity := services.NewPopularityService(db)
	content := services.NewContentService(db, log)
	tracker := services.NewTracker(events, prefs, content, nil, services.InlineDispatcher{}, log)
	recs := services.NewRecommendationService(db, prefs,
		services.DefaultGenerators(content, popularity, 7),
		services.RecommendationOptions{TTL: 24 * time.Hour, StaleAfter: 12 * time.Hour},
		log,
	)

	router := SetupRouter(RouterDeps{
		Tracker:               tracker,
		EventService:          events,
		PreferenceService:     prefs,
		PopularityService:     popularity,
		RecommendationService: recs,
		ContentService:        content,
		Registry:              services.NewContentRegistry(content.Lookup, log),
		PopularWindowDays:     7,
		Log:                   log,
	})
	return &testServer{router: router, db: db, content: content, events: events}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) addContent(t *testing.T, id string, ct models.ContentType, creator string, tags ...string) {
	t.Helper()
	_, err := s.content.Upsert(context.Background(), models.ContentItem{
		ID:        id,
		Kind:      string(ct),
		Type:      ct,
		Title:     "title " + id,
		CreatorID: creator,
	}, tags)
	require.NoError(t, err)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestUserRoutesRequireCaller(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/preferences", "/api/v1/recommendations", "/api/v1/activity/history"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRecordActivity(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/activity", "alice", gin.H{
		"activity_type": "like",
		"content_type":  "post",
		"content_id":    "p1",
		"metadata":      gin.H{"tags": []string{"anxiety"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, true, body["queued"])

	history, err := s.events.History(context.Background(), "alice", services.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ActivityLike, history[0].ActivityType)
}

func TestRecordActivityRejectsMalformedInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing content id", gin.H{"activity_type": "like", "content_type": "post"}},
		{"unknown activity", gin.H{"activity_type": "poke", "content_type": "post", "content_id": "p1"}},
		{"unknown content type", gin.H{"activity_type": "view", "content_type": "meme", "content_id": "p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/activity", "alice", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	history, err := s.events.History(context.Background(), "alice", services.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGetPreferences(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/preferences", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "preferences")
	assert.Nil(t, body["preferences"])

	s.do(t, http.MethodPost, "/api/v1/activity", "bob", gin.H{
		"activity_type": "like",
		"content_type":  "video",
		"content_id":    "v1",
		"metadata":      gin.H{"tags": "sleep"},
	})

	w = s.do(t, http.MethodGet, "/api/v1/preferences", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prefs, ok := decode(t, w)["preferences"].(map[string]interface{})
	require.True(t, ok)
	types := prefs["top_content_types"].([]interface{})
	require.Len(t, types, 1)
	assert.Equal(t, "video", types[0].(map[string]interface{})["key"])
}

func TestGetHistoryValidatesFilters(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/activity/history?activityType=poke", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/activity/history?activityType=view", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPopularRequiresContentType(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/popular", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing parameter", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/v1/popular?contentType=meme", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPopularHydratesCatalogItems(t *testing.T) {
	s := newTestServer(t)
	s.addContent(t, "p1", models.ContentPost, "c1")
	s.addContent(t, "p2", models.ContentPost, "c1")

	for _, user := range []string{"u1", "u2"} {
		s.do(t, http.MethodPost, "/api/v1/activity", user, gin.H{"activity_type": "view", "content_type": "post", "content_id": "p2"})
	}
	s.do(t, http.MethodPost, "/api/v1/activity", "u1", gin.H{"activity_type": "view", "content_type": "post", "content_id": "p1"})
	// Not in the catalog, so dropped from the response
	s.do(t, http.MethodPost, "/api/v1/activity", "u1", gin.H{"activity_type": "view", "content_type": "post", "content_id": "ghost"})

	w := s.do(t, http.MethodGet, "/api/v1/popular?contentType=post", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	popular := decode(t, w)["popular"].([]interface{})
	require.Len(t, popular, 2)
	first := popular[0].(map[string]interface{})
	assert.Equal(t, "p2", first["content_id"])
	assert.Equal(t, float64(2), first["count"])
	assert.Equal(t, "title p2", first["content"].(map[string]interface{})["title"])
}

func TestGetRecommendationsColdStart(t *testing.T) {
	s := newTestServer(t)
	s.addContent(t, "p1", models.ContentPost, "c1")
	s.do(t, http.MethodPost, "/api/v1/activity", "u9", gin.H{"activity_type": "view", "content_type": "post", "content_id": "p1"})

	w := s.do(t, http.MethodGet, "/api/v1/recommendations", "newcomer", nil)
	require.Equal(t, http.StatusOK, w.Code)

	recs := decode(t, w)["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]interface{})
	assert.Equal(t, "p1", rec["content_id"])
	assert.Equal(t, "popular_content", rec["reason"])
}

func TestGetRecommendationsRejectsUnknownType(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/recommendations?contentType=meme", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkClicked(t *testing.T) {
	s := newTestServer(t)
	s.addContent(t, "p1", models.ContentPost, "c1")
	s.do(t, http.MethodPost, "/api/v1/activity", "u9", gin.H{"activity_type": "view", "content_type": "post", "content_id": "p1"})

	w := s.do(t, http.MethodPost, "/api/v1/recommendations/p1/click", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/recommendations/generate", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = s.do(t, http.MethodPost, "/api/v1/recommendations/p1/click", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode(t, w)["recommendation"].(map[string]interface{})
	assert.Equal(t, true, rec["is_clicked"])

	clicks, err := s.events.History(context.Background(), "alice", services.HistoryFilter{ActivityType: models.ActivityClick})
	require.NoError(t, err)
	require.Len(t, clicks, 1)
	assert.Equal(t, "p1", clicks[0].ContentID)

	// Another caller cannot click alice's set
	w = s.do(t, http.MethodPost, "/api/v1/recommendations/p1/click", "mallory", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentUpsertAndTrackedRead(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/v1/content", "", gin.H{
		"id":         "a1",
		"kind":       "article",
		"type":       "article",
		"title":      "Breathing",
		"creator_id": "dr-k",
		"tags":       []string{"Anxiety", "sleep"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Breathing", decode(t, w)["title"])

	w = s.do(t, http.MethodPut, "/api/v1/content", "", gin.H{"id": "a2", "kind": "article", "type": "meme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/content/missing", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/content/a1", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	views, err := s.events.History(context.Background(), "alice", services.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1, "only the successful read is tracked")
	assert.Equal(t, models.ActivityView, views[0].ActivityType)
	assert.Equal(t, models.ContentArticle, views[0].ContentType)
	assert.Equal(t, "a1", views[0].ContentID)

	w = s.do(t, http.MethodGet, "/api/v1/content/stats", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeviceClass(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", "mobile"},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", "tablet"},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", "mobile"},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/129.0", "desktop"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, deviceClass(tt.ua), tt.ua)
	}
}
