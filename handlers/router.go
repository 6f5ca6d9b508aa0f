package handlers

import (
	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps bundles everything the HTTP layer needs
type RouterDeps struct {
	Tracker               *services.Tracker
	EventService          *services.EventService
	PreferenceService     *services.PreferenceService
	PopularityService     *services.PopularityService
	RecommendationService *services.RecommendationService
	ContentService        *services.ContentService
	Registry              *services.ContentRegistry
	PopularWindowDays     int
	CORSOrigins           []string
	Log                   *logger.Logger
}

// SetupRouter builds the gin engine with every route registered
func SetupRouter(deps RouterDeps) *gin.Engine {
	activityHandler := NewActivityHandler(deps.Tracker, deps.EventService, deps.PreferenceService, deps.Log)
	recommendationHandler := NewRecommendationHandler(
		deps.RecommendationService,
		deps.PopularityService,
		deps.Registry,
		deps.Tracker,
		deps.PopularWindowDays,
		deps.Log,
	)
	contentHandler := NewContentHandler(deps.ContentService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Log))
	r.Use(Metrics())
	r.Use(CORS(deps.CORSOrigins))

	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Collaborator-facing, no caller identity needed
		v1.GET("/popular", recommendationHandler.GetPopular)
		v1.PUT("/content", contentHandler.UpsertContent)
		v1.GET("/content/stats", contentHandler.GetStats)
		v1.GET("/activity/stats", activityHandler.GetStats)

		user := v1.Group("", RequireUser())
		{
			user.POST("/activity", activityHandler.RecordActivity)
			user.GET("/activity/history", activityHandler.GetHistory)
			user.GET("/preferences", activityHandler.GetPreferences)

			user.GET("/recommendations", recommendationHandler.GetRecommendations)
			user.POST("/recommendations/generate", recommendationHandler.Generate)
			user.POST("/recommendations/:id/click", recommendationHandler.MarkClicked)

			user.GET("/content/:id",
				TrackActivity(deps.Tracker, models.ActivityView, "", "id"),
				contentHandler.GetContent,
			)
		}
	}

	return r
}
