package services

import (
	"context"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
)

// CreatorResolver finds the author of a content item
type CreatorResolver interface {
	CreatorOf(ctx context.Context, contentID string) string
}

// Tracker is the ingestion entry point collaborators call on every user action.
// Track validates synchronously and runs the rest of the pipeline on the
// dispatcher: tag extraction, event log append, creator lookup and preference update.
type Tracker struct {
	events     *EventService
	prefs      *PreferenceService
	creators   CreatorResolver
	tags       TagExtractor
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewTracker wires the ingestion pipeline. tags may be nil.
func NewTracker(events *EventService, prefs *PreferenceService, creators CreatorResolver, tags TagExtractor, dispatcher Dispatcher, log *logger.Logger) *Tracker {
	return &Tracker{
		events:     events,
		prefs:      prefs,
		creators:   creators,
		tags:       tags,
		dispatcher: dispatcher,
		log:        log.With("component", "Tracker"),
	}
}

// Track queues one interaction. It returns an ErrValidation error for malformed
// input; otherwise it reports whether the work was accepted by the queue.
func (t *Tracker) Track(in EventInput) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}
	in.Metadata = copyMetadata(in.Metadata)

	accepted := t.dispatcher.Submit("track:"+string(in.ActivityType), func(ctx context.Context) {
		t.process(ctx, in)
	})
	return accepted, nil
}

func (t *Tracker) process(ctx context.Context, in EventInput) {
	if in.ActivityType == models.ActivitySearch && t.tags != nil && len(models.MetadataTags(in.Metadata)) == 0 {
		if query := models.MetadataString(in.Metadata, models.MetaSearchQuery); query != "" {
			if tags := t.tags.ExtractTags(ctx, query); len(tags) > 0 {
				in.Metadata[models.MetaTags] = tags
			}
		}
	}

	if _, ok := t.events.Record(ctx, in); !ok {
		return
	}

	creatorID := models.MetadataString(in.Metadata, models.MetaCreatorID)
	if creatorID == "" && t.creators != nil {
		creatorID = t.creators.CreatorOf(ctx, in.ContentID)
	}

	t.prefs.ApplyEvent(ctx, PreferenceEvent{
		UserID:       in.UserID,
		ActivityType: in.ActivityType,
		ContentType:  in.ContentType,
		ContentID:    in.ContentID,
		Metadata:     in.Metadata,
		CreatorID:    creatorID,
	})
}

// copyMetadata detaches the queued event from a map the caller may keep mutating
func copyMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
