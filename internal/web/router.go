// Package web serves the Roamify pages and JSON API with gin.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"roamify/internal/logging"
	"roamify/internal/metrics"
	"roamify/internal/models"
	"roamify/internal/ratings"
	"roamify/internal/recommend"
	"roamify/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Service is what the handlers need from *service.Service.
type Service interface {
	Recommend(ctx context.Context, region string, n int, user string) (recommend.Result, error)
	Submit(ctx context.Context, user string, sub ratings.Submission) (map[string]float64, error)
	LookupRating(ctx context.Context, user, attraction string) (float64, error)
	Regions(ctx context.Context) ([]string, error)
	RegionForm(ctx context.Context, region, user string) ([]service.FormEntry, error)
	UserView(ctx context.Context, user string) ([]models.UserAttraction, bool, error)
}

type Options struct {
	CORSOrigins []string
}

// Handler holds the route handlers.
type Handler struct {
	svc Service
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"rating": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Service, opts Options) (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	if len(opts.CORSOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = opts.CORSOrigins
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		config.ExposeHeaders = []string{"Content-Length"}
		router.Use(cors.New(config))
	}
	router.SetHTMLTemplate(tmpl)

	h := &Handler{svc: svc}

	router.GET("/", h.Index)
	router.GET("/recommendations", h.RecommendationsPage)
	router.GET("/rate", h.RateForm)
	router.POST("/rate", h.SubmitForm)

	api := router.Group("/api")
	{
		api.GET("/regions", h.Regions)
		api.GET("/recommendations", h.Recommendations)
		api.GET("/rating", h.Rating)
		api.GET("/users/:user/ratings", h.UserRatings)
		api.POST("/users/:user/ratings", h.SubmitRatings)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logging.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	if service.IsBadRequest(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
