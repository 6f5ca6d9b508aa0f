package services

import (
	"context"
	"sync"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
)

// LookupFunc resolves ids of one content kind into summaries keyed by id
type LookupFunc func(ctx context.Context, ids []string) (map[string]models.ContentSummary, error)

// ContentRef is a polymorphic content reference
type ContentRef struct {
	Kind string
	ID   string
}

// ContentRegistry resolves polymorphic (kind, id) references through one lookup
// function per kind. Kinds without a registration use the fallback, if any.
type ContentRegistry struct {
	mu       sync.RWMutex
	lookups  map[string]LookupFunc
	fallback LookupFunc
	log      *logger.Logger
}

// NewContentRegistry creates a registry; fallback may be nil
func NewContentRegistry(fallback LookupFunc, log *logger.Logger) *ContentRegistry {
	return &ContentRegistry{
		lookups:  make(map[string]LookupFunc),
		fallback: fallback,
		log:      log.With("component", "ContentRegistry"),
	}
}

// Register binds a lookup function to a content kind
func (r *ContentRegistry) Register(kind string, fn LookupFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[kind] = fn
}

func (r *ContentRegistry) lookupFor(kind string) LookupFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.lookups[kind]; ok {
		return fn
	}
	return r.fallback
}

// Hydrate resolves refs. References that cannot be resolved are absent from the
// result; a failing lookup only loses its own kind.
func (r *ContentRegistry) Hydrate(ctx context.Context, refs []ContentRef) map[ContentRef]models.ContentSummary {
	byKind := make(map[string][]string)
	for _, ref := range refs {
		byKind[ref.Kind] = append(byKind[ref.Kind], ref.ID)
	}

	out := make(map[ContentRef]models.ContentSummary, len(refs))
	for kind, ids := range byKind {
		fn := r.lookupFor(kind)
		if fn == nil {
			r.log.Warn("No lookup registered for content kind", "kind", kind)
			continue
		}
		found, err := fn(ctx, ids)
		if err != nil {
			r.log.Error("Content lookup failed", "kind", kind, "error", err)
			continue
		}
		for id, summary := range found {
			out[ContentRef{Kind: kind, ID: id}] = summary
		}
	}
	return out
}

// HydrateRecommendations attaches content to recommendation items, dropping
// items whose content no longer resolves.
func (r *ContentRegistry) HydrateRecommendations(ctx context.Context, items []models.RecommendationItem) []models.RecommendationResponseItem {
	refs := make([]ContentRef, len(items))
	for i, item := range items {
		refs[i] = ContentRef{Kind: item.ContentKind, ID: item.ContentID}
	}
	found := r.Hydrate(ctx, refs)

	out := make([]models.RecommendationResponseItem, 0, len(items))
	for i, item := range items {
		summary, ok := found[refs[i]]
		if !ok {
			continue
		}
		out = append(out, models.RecommendationResponseItem{
			ID:          item.ID,
			ContentID:   item.ContentID,
			ContentKind: item.ContentKind,
			ContentType: item.ContentType,
			Score:       item.Score,
			Reason:      item.Reason,
			IsClicked:   item.IsClicked,
			Content:     summary,
		})
	}
	return out
}

// HydratePopular attaches content to popularity rows, dropping unresolved rows
func (r *ContentRegistry) HydratePopular(ctx context.Context, rows []models.PopularItem) []models.PopularResponseItem {
	refs := make([]ContentRef, len(rows))
	for i, row := range rows {
		refs[i] = ContentRef{Kind: row.ContentKind, ID: row.ContentID}
	}
	found := r.Hydrate(ctx, refs)

	out := make([]models.PopularResponseItem, 0, len(rows))
	for i, row := range rows {
		summary, ok := found[refs[i]]
		if !ok {
			continue
		}
		out = append(out, models.PopularResponseItem{
			ContentID:   row.ContentID,
			ContentKind: row.ContentKind,
			ContentType: row.ContentType,
			Count:       row.Count,
			Content:     summary,
		})
	}
	return out
}
