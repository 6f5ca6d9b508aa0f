package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/database"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testNow is a Tuesday morning in UTC
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// mutableClock is a clock tests can move forward
type mutableClock struct{ t time.Time }

func (c *mutableClock) Now() time.Time { return c.t }
func (c *mutableClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func insertEvent(t *testing.T, db *gorm.DB, at time.Time, userID string, activity models.ActivityType, ct models.ContentType, contentID string) {
	t.Helper()
	ev := models.InteractionEvent{
		ID:           ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		UserID:       userID,
		ActivityType: activity,
		ContentType:  ct,
		ContentID:    contentID,
		ContentKind:  string(ct),
		CreatedAt:    at.UTC(),
	}
	require.NoError(t, db.Create(&ev).Error)
}

func insertContent(t *testing.T, db *gorm.DB, id string, ct models.ContentType, creator string, createdAt time.Time, tags ...string) {
	t.Helper()
	svc := NewContentService(db, logger.NewNop())
	_, err := svc.Upsert(context.Background(), models.ContentItem{
		ID:        id,
		Kind:      string(ct),
		Type:      ct,
		Title:     "title " + id,
		CreatorID: creator,
		CreatedAt: createdAt.UTC(),
	}, tags)
	require.NoError(t, err)
}

// stubGenerator returns canned candidates or an error
type stubGenerator struct {
	name       string
	candidates []models.Candidate
	err        error
	calls      int
}

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(_ context.Context, _ *models.PreferenceProfile) ([]models.Candidate, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.candidates, nil
}

var errBoom = errors.New("boom")
