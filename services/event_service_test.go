package services

import (
	"context"
	"testing"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventInputValidate(t *testing.T) {
	valid := EventInput{UserID: "u", ActivityType: models.ActivityView, ContentType: models.ContentPost, ContentID: "p1"}

	tests := []struct {
		name    string
		mutate  func(*EventInput)
		wantErr bool
	}{
		{"valid", func(*EventInput) {}, false},
		{"missing user", func(in *EventInput) { in.UserID = " " }, true},
		{"unknown activity", func(in *EventInput) { in.ActivityType = "poke" }, true},
		{"unknown content type", func(in *EventInput) { in.ContentType = "meme" }, true},
		{"missing content id", func(in *EventInput) { in.ContentID = "" }, true},
		{"valid location", func(in *EventInput) {
			in.Metadata = map[string]interface{}{"location": map[string]interface{}{"lat": 34.08, "lon": 74.79}}
		}, false},
		{"latitude out of range", func(in *EventInput) {
			in.Metadata = map[string]interface{}{"location": map[string]interface{}{"lat": 91.0, "lon": 0.0}}
		}, true},
		{"location not an object", func(in *EventInput) {
			in.Metadata = map[string]interface{}{"location": "srinagar"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordAppendsOneRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, logger.NewNop()).WithClock(fixedClock(testNow))

	id, ok := svc.Record(context.Background(), EventInput{
		UserID:       "alice",
		ActivityType: models.ActivityLike,
		ContentType:  models.ContentArticle,
		ContentID:    "a1",
		Metadata:     map[string]interface{}{models.MetaTags: []string{"calm"}},
		SessionID:    "s1",
	})
	require.True(t, ok)
	assert.Len(t, id, 26)

	var events []models.InteractionEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, "article", events[0].ContentKind, "kind defaults to the content type")
	assert.Equal(t, []string{"calm"}, models.MetadataTags(events[0].Metadata))
}

func TestRecordDiscardsMalformedEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, logger.NewNop())

	id, ok := svc.Record(context.Background(), EventInput{UserID: "alice", ActivityType: "poke", ContentType: models.ContentPost, ContentID: "p1"})
	assert.False(t, ok)
	assert.Empty(t, id)

	var count int64
	db.Model(&models.InteractionEvent{}).Count(&count)
	assert.Zero(t, count)
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.InteractionEvent{}))
	svc := NewEventService(db, logger.NewNop())

	id, ok := svc.Record(context.Background(), EventInput{UserID: "alice", ActivityType: models.ActivityView, ContentType: models.ContentPost, ContentID: "p1"})
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, logger.NewNop())

	for i := 0; i < 30; i++ {
		insertEvent(t, db, testNow.Add(time.Duration(i)*time.Minute), "alice", models.ActivityView, models.ContentPost, "p1")
	}
	insertEvent(t, db, testNow.Add(time.Hour), "alice", models.ActivityLike, models.ContentVideo, "v1")
	insertEvent(t, db, testNow.Add(2*time.Hour), "bob", models.ActivityLike, models.ContentVideo, "v1")

	ctx := context.Background()

	events, err := svc.History(ctx, "alice", HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, events, defaultHistoryLimit)
	assert.Equal(t, models.ActivityLike, events[0].ActivityType, "newest first")
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
	}

	events, err = svc.History(ctx, "alice", HistoryFilter{ContentType: models.ContentVideo})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "v1", events[0].ContentID)

	events, err = svc.History(ctx, "alice", HistoryFilter{ActivityType: models.ActivityView, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, events, 30)

	events, err = svc.History(ctx, "alice", HistoryFilter{Since: testNow.Add(25 * time.Minute), Until: testNow.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestGetEventStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, logger.NewNop())
	insertEvent(t, db, testNow, "alice", models.ActivityView, models.ContentPost, "p1")
	insertEvent(t, db, testNow, "bob", models.ActivityView, models.ContentPost, "p2")
	insertEvent(t, db, testNow, "bob", models.ActivityShare, models.ContentPost, "p2")

	stats, err := svc.GetEventStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats["total_events"])
	assert.EqualValues(t, 2, stats["unique_users"])
	assert.EqualValues(t, 2, stats["unique_content"])
	byActivity := stats["by_activity"].(map[string]int64)
	assert.EqualValues(t, 2, byActivity["view"])
	assert.EqualValues(t, 1, byActivity["share"])
	assert.EqualValues(t, 0, byActivity["bookmark"])
}
