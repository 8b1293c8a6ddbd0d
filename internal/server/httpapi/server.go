package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ruedaverde/backend/internal/logging"
	"github.com/ruedaverde/backend/internal/server/services"
)

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	storage   *services.StorageService
	cms       *services.SquarespaceService
	jwtSecret []byte
	startedAt time.Time
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ss *services.StorageService, cs *services.SquarespaceService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		storage:   ss,
		cms:       cs,
		jwtSecret: []byte(secretKey),
		startedAt: time.Now(),
	}
}

// Router builds the gin engine with all routes registered. Split out so
// handler tests can drive it through httptest without binding a socket.
func (s *HTTPServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.welcomeHandler)
	router.NoRoute(notFoundHandler)

	api := router.Group("/api")
	api.GET("/health", s.healthHandler)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.registerHandler)
		authGroup.POST("/login", s.loginHandler)

		protected := authGroup.Group("")
		protected.Use(s.Authenticate())
		protected.GET("/profile", s.getProfileHandler)
		protected.PUT("/profile", s.updateProfileHandler)
		protected.POST("/change-password", s.changePasswordHandler)
	}

	uploads := api.Group("/uploads")
	uploads.Use(s.Authenticate())
	uploads.POST("/presign", s.presignUploadHandler)

	cms := api.Group("/cms")
	cms.Use(s.Authenticate())
	cms.GET("/website", s.cmsWebsiteHandler)
	cms.GET("/pages", s.cmsPagesHandler)

	return router
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
