package handlers

import (
	"power_wizard/internal/logger"
	"power_wizard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	limiter   *clientLimiter
	origins   []string
	funnelKey string
}

// Option tunes a Handler.
type Option func(*Handler)

// WithRateLimit limits every client IP to rps requests per second with the
// given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(h *Handler) {
		if rps > 0 {
			h.limiter = newClientLimiter(rps, burst, nil)
		}
	}
}

// WithAllowedOrigins restricts which origins may open a WebSocket. "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) { h.origins = origins }
}

// WithFunnelKey sets the bearer key the funnel dashboard routes require.
// An empty key closes those routes.
func WithFunnelKey(key string) Option {
	return func(h *Handler) { h.funnelKey = key }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	api := router.Group("/api/v1", h.rateLimitMiddleware)
	{
		h.registerPublicRoutes(api)
		h.registerWizardRoutes(api.Group("/wizard", h.sessionMiddleware))
		h.registerFunnelRoutes(api.Group("/funnel", h.funnelKeyMiddleware))
	}

	router.GET("/ws/deployments/:id", h.rateLimitMiddleware, h.wsDeployment)

	return router
}

func (h *Handler) registerPublicRoutes(api *gin.RouterGroup) {
	api.POST("/sessions", h.startSession)
	api.GET("/plans", h.browsePlans)
	api.GET("/plans/compare", h.comparePlans)
	api.GET("/estimate", h.estimate)
	api.GET("/experiments/:testId", h.assignVariant)
	api.GET("/deployments/:id", h.deploymentStatus)
}

func (h *Handler) registerWizardRoutes(wiz *gin.RouterGroup) {
	wiz.GET("", h.getWizard)
	// Body: any subset of the top-level state keys, e.g. {"property_type":"house"}
	wiz.PATCH("", h.updateWizard)
	wiz.POST("/next", h.nextStep)
	wiz.POST("/back", h.prevStep)
	wiz.POST("/reset", h.resetWizard)
	wiz.POST("/goto/:step", h.gotoStep)
	wiz.POST("/address/confirm", h.confirmAddress)
	wiz.POST("/plan", h.selectPlan)
	wiz.DELETE("/plan", h.clearPlan)
	wiz.GET("/plans", h.sessionPlans)
}

func (h *Handler) registerFunnelRoutes(funnel *gin.RouterGroup) {
	funnel.GET("/events", h.getFunnelEvents)
	funnel.GET("/summary", h.getFunnelSummary)
}
