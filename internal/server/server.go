package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentilytics/internal/models"
)

const (
	SHUTDOWN_TIMEOUT     = 10 * time.Second
	READ_HEADER_TIMEOUT  = 10 * time.Second
	MAX_MULTIPART_MEMORY = 8 << 20
)

type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

type BatchAnalyzer interface {
	AnalyzeFile(ctx context.Context, filename string, r io.Reader) (models.BatchResponse, error)
}

type Options struct {
	Addr string
	// MaxUploadBytes caps /analyze-batch request bodies. Zero means unbounded.
	MaxUploadBytes int64
}

type Server struct {
	text   TextAnalyzer
	batch  BatchAnalyzer
	opts   Options
	engine *gin.Engine
}

func New(text TextAnalyzer, batch BatchAnalyzer, opts Options) *Server {
	s := &Server{
		text:  text,
		batch: batch,
		opts:  opts,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = MAX_MULTIPART_MEMORY

	router.Use(
		requestID(),
		requestLogger(),
		gin.CustomRecovery(recoverJSON),
		cors.New(corsConfig()),
	)

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.POST("/analyze", s.handleAnalyze)
	router.POST("/analyze-batch", limitBody(s.opts.MaxUploadBytes), s.handleAnalyzeBatch)

	return router
}

// corsConfig accepts every origin, reflecting it so credentialed browser
// requests from the separately hosted front end work.
func corsConfig() cors.Config {
	return cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "Authorization", REQUEST_ID_HEADER},
		ExposeHeaders:    []string{REQUEST_ID_HEADER},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: READ_HEADER_TIMEOUT,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Server] Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func recoverJSON(c *gin.Context, recovered any) {
	slog.Error("[Server] Recovered from panic",
		slog.Any("panic", recovered),
		slog.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Internal server error"})
}
