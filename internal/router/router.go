package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/service"
	"storefront/internal/view"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Verification *handler.VerificationHandler
	Business     *handler.BusinessHandler
	Product      *handler.ProductHandler
	Upload       *handler.UploadHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, sessions service.SessionService, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.Renderer = view.NewRenderer()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(cfg.Media.PublicURL, cfg.Media.LocalDir)

	e.GET("/verification", h.Verification.Verify)

	api := e.Group("/api")

	// Public routes
	api.POST("/registration", h.Auth.Register)
	api.POST("/token", h.Auth.Token)
	api.GET("/business/:id", h.Business.GetBusiness)
	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/:id", h.Product.GetProduct)

	// Secured routes (require a session token)
	secured := api.Group("", SessionAuth(sessions))

	secured.GET("/user/me", h.User.Me)
	secured.POST("/auth/logout", h.Auth.Logout)

	secured.PUT("/business/:id", h.Business.UpdateBusiness)

	secured.POST("/products", h.Product.CreateProduct)
	secured.PUT("/products/:id", h.Product.UpdateProduct)
	secured.DELETE("/products/:id", h.Product.DeleteProduct)

	secured.POST("/uploadfile/profile", h.Upload.UploadLogo)
	secured.POST("/uploadfile/product/:id", h.Upload.UploadProductImage)
}

func requestLogger() echo.MiddlewareFunc {
	log := logger.WithModule("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
