package services

import (
	"context"
	"testing"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory ContentSource
type fakeCatalog struct {
	items   []models.ContentItem
	seen    map[string]map[string]bool // user -> content ids
	tagArgs []string
}

func (f *fakeCatalog) RecentByType(_ context.Context, ct models.ContentType, excludeInteractedBy string, limit int) ([]models.ContentItem, error) {
	var out []models.ContentItem
	for _, it := range f.items {
		if it.Type == ct && !f.seen[excludeInteractedBy][it.ID] && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) RecentByCreator(_ context.Context, creatorID string, ct models.ContentType, limit int) ([]models.ContentItem, error) {
	var out []models.ContentItem
	for _, it := range f.items {
		if it.CreatorID == creatorID && it.Type == ct && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ByTags(_ context.Context, tags []string, limit int) ([]models.ContentItem, error) {
	f.tagArgs = tags
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var out []models.ContentItem
	for _, it := range f.items {
		for _, t := range it.TagNames() {
			if want[t] && len(out) < limit {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

type fakePopularity map[models.ContentType][]models.PopularItem

func (f fakePopularity) PopularContent(_ context.Context, activity models.ActivityType, ct models.ContentType, windowDays, limit int) ([]models.PopularItem, error) {
	if activity != models.ActivityView || windowDays != 7 {
		return nil, errBoom
	}
	rows := f[ct]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func item(id string, ct models.ContentType, creator string, tags ...string) models.ContentItem {
	return models.ContentItem{
		ID: id, Kind: string(ct), Type: ct, CreatorID: creator,
		Tags: models.NewContentTags(id, tags), CreatedAt: time.Now(),
	}
}

func TestContentTypeStrategy(t *testing.T) {
	catalog := &fakeCatalog{
		items: []models.ContentItem{
			item("p1", models.ContentPost, "c"), item("p2", models.ContentPost, "c"),
			item("v1", models.ContentVideo, "c"), item("a1", models.ContentArticle, "c"),
			item("q1", models.ContentQuestion, "c"),
		},
		seen: map[string]map[string]bool{"alice": {"p1": true}},
	}
	profile := models.NewPreferenceProfile("alice")
	profile.ContentTypePreferences = map[string]float64{"post": 0.5, "video": 0.25, "article": 0.1, "question": 0.05}

	got, err := NewContentTypeStrategy(catalog).Generate(context.Background(), profile)
	require.NoError(t, err)

	ids := map[string]float64{}
	for _, c := range got {
		assert.Equal(t, models.ReasonUserPreference, c.Reason)
		ids[c.ContentID] = c.Score
	}
	assert.NotContains(t, ids, "p1", "already interacted")
	assert.NotContains(t, ids, "q1", "outside the top 3 types")
	assert.InDelta(t, 0.4, ids["p2"], 1e-9)
	assert.InDelta(t, 0.2, ids["v1"], 1e-9)
	assert.InDelta(t, 0.08, ids["a1"], 1e-9)
}

func TestPopularityStrategy(t *testing.T) {
	pop := fakePopularity{
		models.ContentPost:   {{ContentID: "p1", ContentKind: "post", ContentType: models.ContentPost, Count: 5}},
		models.ContentVideo:  {{ContentID: "v1", ContentKind: "video", ContentType: models.ContentVideo, Count: 40}},
		models.ContentAnswer: {{ContentID: "x1", ContentKind: "answer", ContentType: models.ContentAnswer, Count: 9}},
	}

	got, err := NewPopularityStrategy(pop, 0).Generate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2, "answers are not a major type")

	assert.Equal(t, "p1", got[0].ContentID)
	assert.InDelta(t, 0.35, got[0].Score, 1e-9)
	assert.InDelta(t, 0.7*40/10, got[1].Score, 1e-9, "busier content keeps scoring higher")
	for _, c := range got {
		assert.Equal(t, models.ReasonPopularContent, c.Reason)
	}
}

func TestCreatorAffinityStrategy(t *testing.T) {
	catalog := &fakeCatalog{items: []models.ContentItem{
		item("p1", models.ContentPost, "top"), item("p2", models.ContentPost, "top"), item("p3", models.ContentPost, "top"),
		item("v1", models.ContentVideo, "top"),
		item("a1", models.ContentArticle, "second"),
		item("a2", models.ContentArticle, "fourth"),
	}}
	profile := models.NewPreferenceProfile("alice")
	profile.CreatorPreferences = []models.CreatorPreference{
		{CreatorID: "top", Score: 0.5}, {CreatorID: "second", Score: 0.4},
		{CreatorID: "third", Score: 0.3}, {CreatorID: "fourth", Score: 0.2},
	}

	got, err := NewCreatorAffinityStrategy(catalog).Generate(context.Background(), profile)
	require.NoError(t, err)

	ids := map[string]float64{}
	for _, c := range got {
		assert.Equal(t, models.ReasonCreatorAffinity, c.Reason)
		ids[c.ContentID] = c.Score
	}
	assert.Len(t, ids, 4)
	assert.NotContains(t, ids, "p3", "two per type")
	assert.NotContains(t, ids, "a2", "outside the top 3 creators")
	assert.InDelta(t, 0.4, ids["p1"], 1e-9)
	assert.InDelta(t, 0.32, ids["a1"], 1e-9)
}

func TestTagAffinityStrategy(t *testing.T) {
	catalog := &fakeCatalog{items: []models.ContentItem{
		item("p1", models.ContentPost, "c", "anxiety", "sleep"),
		item("p2", models.ContentPost, "c", "anxiety", "food", "music", "art"),
		item("p3", models.ContentPost, "c", "cooking"),
	}}
	profile := models.NewPreferenceProfile("alice")
	profile.TagPreferences = map[string]float64{
		"anxiety": 0.6, "sleep": 0.4, "a": 0.3, "b": 0.3, "c": 0.3, "cooking": 0.1,
	}

	got, err := NewTagAffinityStrategy(catalog).Generate(context.Background(), profile)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"anxiety", "sleep", "a", "b", "c"}, catalog.tagArgs)

	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ContentID)
	assert.InDelta(t, 0.7*(1.0/2), got[0].Score, 1e-9)
	assert.InDelta(t, 0.7*(0.6/4), got[1].Score, 1e-9)
	assert.Equal(t, models.ReasonTagBased, got[1].Reason)
}

func TestProfileStrategiesEmptyOnColdStart(t *testing.T) {
	catalog := &fakeCatalog{items: []models.ContentItem{item("p1", models.ContentPost, "c", "x")}}
	empty := models.NewPreferenceProfile("alice")

	for _, gen := range []CandidateGenerator{
		NewContentTypeStrategy(catalog),
		NewCreatorAffinityStrategy(catalog),
		NewTagAffinityStrategy(catalog),
	} {
		for _, profile := range []*models.PreferenceProfile{nil, empty} {
			got, err := gen.Generate(context.Background(), profile)
			require.NoError(t, err, gen.Name())
			assert.Empty(t, got, gen.Name())
		}
	}
}

func TestMergeCandidatesDedupes(t *testing.T) {
	a := []models.Candidate{
		{ContentID: "1", ContentType: models.ContentPost, Reason: models.ReasonUserPreference, Score: 0.1},
		{ContentID: "2", ContentType: models.ContentPost, Reason: models.ReasonUserPreference},
	}
	b := []models.Candidate{
		{ContentID: "1", ContentType: models.ContentPost, Reason: models.ReasonPopularContent, Score: 0.9},
		{ContentID: "3", ContentType: models.ContentVideo, Reason: models.ReasonPopularContent},
	}
	c := []models.Candidate{{ContentID: "3", ContentType: models.ContentVideo, Reason: models.ReasonTagBased}}

	merged := MergeCandidates(a, nil, b, c)
	require.Len(t, merged, 3)

	seen := map[string]bool{}
	for _, m := range merged {
		key := m.ContentID + "/" + string(m.ContentType)
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
	assert.Equal(t, models.ReasonUserPreference, merged[0].Reason, "first proposal wins")
	assert.Equal(t, models.ReasonPopularContent, merged[2].Reason)
}
