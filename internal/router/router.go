// Package router sets up the gin engine and attaches the API routes.
package router

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/mirrorbank/backend/internal/controllers/healthz"
	"github.com/mirrorbank/backend/internal/controllers/v1"
	"github.com/mirrorbank/backend/internal/httputil"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Set at build time with -ldflags "-X github.com/mirrorbank/backend/internal/router.version=...".
var version = "0.0.0"

// Options configure optional parts of the router.
type Options struct {
	AllowOrigins []string // Origins allowed by CORS. CORS is disabled when empty.
	Pprof        bool     // Serve pprof profiles under /debug/pprof
}

// Config sets up the router and its middlewares. The returned teardown
// function unregisters the Prometheus metrics and must be called when the
// router is not used anymore.
func Config(url *url.URL, options Options) (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Client IPs are never used
	r.ForwardedByClientIP = false

	// 405 for known paths with an unknown method
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.NoMethod(func(c *gin.Context) {
		httputil.NewError(c, http.StatusMethodNotAllowed, httputil.ErrMethodNotAllowed)
	})
	r.NoRoute(func(c *gin.Context) {
		httputil.NewError(c, http.StatusNotFound, httputil.ErrRouteNotFound)
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if len(options.AllowOrigins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", options.AllowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     options.AllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", OwnerHeader},
			AllowCredentials: true,
		}))
	}

	// No route listing in debug mode
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// No trusted proxies, see ForwardedByClientIP
	_ = r.SetTrustedProxies([]string{})

	// pprof performance profiles
	if options.Pprof {
		pprof.Register(r)
	}

	if err := registerPrometheusMetrics(); err != nil {
		return nil, func() {}, err
	}

	teardown := func() {
		if !unregisterPrometheusMetrics() {
			log.Error().Msg("could not unregister all Prometheus metrics")
		}
	}

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
func AttachRoutes(co v1.Controller, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthz.RegisterRoutes(group.Group("/healthz"))

	// API v1 setup
	api := group.Group("/v1")
	{
		api.GET("", GetV1)
		api.OPTIONS("", OptionsV1)
	}

	co.RegisterRoutes(api.Group("", OwnerMiddleware(co.DefaultOwner)))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Version string `json:"version" example:"https://example.com/api/version"` // Endpoint returning the version of the backend
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"` // Health check
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"` // Prometheus metrics
	V1      string `json:"v1" example:"https://example.com/api/v1"`           // List endpoint for all v1 endpoints
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Version: url + "/version",
			Healthz: url + "/healthz",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the MirrorBank backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"` // Links for the v1 API
}

type V1Links struct {
	Accounts        string `json:"accounts" example:"https://example.com/api/v1/accounts"`               // URL of account list endpoint
	Transactions    string `json:"transactions" example:"https://example.com/api/v1/transactions"`       // URL of transaction list endpoint
	Budgets         string `json:"budgets" example:"https://example.com/api/v1/budgets"`                 // URL of budget list endpoint
	Alerts          string `json:"alerts" example:"https://example.com/api/v1/budgets/alerts"`           // URL of the budget alert feed
	Goals           string `json:"goals" example:"https://example.com/api/v1/goals"`                     // URL of goal list endpoint
	Analytics       string `json:"analytics" example:"https://example.com/api/v1/analytics"`             // Base URL of the analytics endpoints
	Recommendations string `json:"recommendations" example:"https://example.com/api/v1/recommendations"` // URL of the recommendation feed
	CategoryRules   string `json:"categoryRules" example:"https://example.com/api/v1/category-rules"`    // URL of category rule list endpoint
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	V1Response
//	@Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL)) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Accounts:        url + "/accounts",
			Transactions:    url + "/transactions",
			Budgets:         url + "/budgets",
			Alerts:          url + "/budgets/alerts",
			Goals:           url + "/goals",
			Analytics:       url + "/analytics",
			Recommendations: url + "/recommendations",
			CategoryRules:   url + "/category-rules",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
