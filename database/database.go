package database

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/config"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the configured database and migrates the schema
func InitDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.DatabaseDriver) {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configurePool(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", db.Dialector.Name())
	return db, nil
}

// configurePool serializes SQLite writers; concurrent ingestion workers would
// otherwise hit "database is locked".
func configurePool(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}

// Migrate creates or updates every table the engine owns
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.InteractionEvent{},
		&models.PreferenceProfileRecord{},
		&models.PreferenceScore{},
		&models.ContentItem{},
		&models.ContentTag{},
		&models.RecommendationSet{},
		&models.RecommendationItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// OpenInMemory opens a migrated, private in-memory SQLite database. Used by tests.
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(name))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := configurePool(db); err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadContentData loads catalog items from a JSON file into an empty catalog
func LoadContentData(db *gorm.DB, filePath string, log *logger.Logger) error {
	var count int64
	db.Model(&models.ContentItem{}).Count(&count)
	if count > 0 {
		log.Info("Catalog already populated, skipping data load", "items", count)
		return nil
	}

	log.Info("Loading content data", "path", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	// Parse JSON directly into ContentItem slice (uses custom UnmarshalJSON)
	var items []models.ContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	batchSize := 100
	successCount := 0
	errorCount := 0

	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}

		batch := items[i:end]
		if err := db.Create(&batch).Error; err != nil {
			log.Warn("Failed to insert content batch", "error", err)
			errorCount += len(batch)
		} else {
			successCount += len(batch)
		}
	}

	log.Info("Content load complete", "successful", successCount, "errors", errorCount)
	return nil
}

// SeedUserEvents generates sample interaction events so popularity and
// recommendations have something to work with in a fresh environment.
func SeedUserEvents(db *gorm.DB, log *logger.Logger) error {
	var count int64
	db.Model(&models.InteractionEvent{}).Count(&count)
	if count > 0 {
		log.Info("Event log already populated, skipping seed", "events", count)
		return nil
	}

	var items []models.ContentItem
	db.Order("created_at DESC").Limit(50).Find(&items)
	if len(items) == 0 {
		return fmt.Errorf("no content found to create events")
	}

	events := []models.InteractionEvent{}
	now := time.Now().UTC()

	for i, item := range items {
		// Newer content gets more engagement
		baseEvents := 5
		if i < 10 {
			baseEvents = 30
		} else if i < 20 {
			baseEvents = 15
		}

		for j := 0; j < baseEvents; j++ {
			// Spread over the last 6 days so everything falls inside the weekly window
			ts := now.Add(-time.Duration(j%144) * time.Hour)

			activity := models.ActivityView
			if j%3 == 0 {
				activity = models.ActivityLike
			}
			if j%7 == 0 {
				activity = models.ActivityShare
			}

			events = append(events, models.InteractionEvent{
				ID:           ulid.MustNew(ulid.Timestamp(ts), ulid.DefaultEntropy()).String(),
				UserID:       fmt.Sprintf("seed_user_%d", j%20),
				ActivityType: activity,
				ContentType:  item.Type,
				ContentID:    item.ID,
				ContentKind:  item.Kind,
				Metadata:     datatypes.JSONMap{"referrer": "seed"},
				SessionID:    fmt.Sprintf("seed_session_%d", j%20),
				CreatedAt:    ts,
			})
		}
	}

	batchSize := 500
	for i := 0; i < len(events); i += batchSize {
		end := i + batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := db.Create(events[i:end]).Error; err != nil {
			log.Warn("Failed to insert event batch", "error", err)
		}
	}

	log.Info("Seeded sample interaction events", "events", len(events))
	return nil
}
