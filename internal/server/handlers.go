package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentilytics/internal/batch"
	"github.com/spacesedan/sentilytics/internal/models"
	"github.com/spacesedan/sentilytics/internal/sentiment"
)

const (
	MSG_EMPTY_TEXT       = "Text cannot be empty"
	MSG_UNSUPPORTED_FILE = "Only CSV files are supported"
	MSG_MISSING_COLUMN   = "CSV must have a 'text' column"
	MSG_PROCESSING_ERROR = "Error processing file: "
	UPLOAD_FIELD         = "file"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Sentiment Analytics API",
		"endpoints": gin.H{
			"/analyze":       "POST - Analyze single text",
			"/analyze-batch": "POST - Upload CSV file",
			"/health":        "GET - Health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var input models.TextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	if input.Text == nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Field required: text")
		return
	}
	if strings.TrimSpace(*input.Text) == "" {
		abortWithDetail(c, http.StatusBadRequest, MSG_EMPTY_TEXT)
		return
	}

	result, err := s.text.Analyze(c.Request.Context(), *input.Text)
	if errors.Is(err, sentiment.ErrInvalidInput) {
		abortWithDetail(c, http.StatusBadRequest, MSG_EMPTY_TEXT)
		return
	}
	if err != nil {
		slog.Error("[Server] Text analysis failed",
			slog.String("error", err.Error()))
		abortWithDetail(c, http.StatusInternalServerError, "Error analyzing text: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalyzeBatch(c *gin.Context) {
	header, err := c.FormFile(UPLOAD_FIELD)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Field required: file")
		return
	}
	if err != nil {
		abortWithDetail(c, http.StatusInternalServerError, MSG_PROCESSING_ERROR+err.Error())
		return
	}

	if err := batch.ValidateFilename(header.Filename); err != nil {
		status, detail := batchStatus(err)
		abortWithDetail(c, status, detail)
		return
	}

	file, err := header.Open()
	if err != nil {
		abortWithDetail(c, http.StatusInternalServerError, MSG_PROCESSING_ERROR+err.Error())
		return
	}
	defer file.Close()

	resp, err := s.batch.AnalyzeFile(c.Request.Context(), header.Filename, file)
	if err != nil {
		status, detail := batchStatus(err)
		abortWithDetail(c, status, detail)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// batchStatus maps a batch failure to its status code and detail message.
// Anything unclassified is a processing failure.
func batchStatus(err error) (int, string) {
	switch {
	case errors.Is(err, batch.ErrUnsupportedFileType):
		return http.StatusBadRequest, MSG_UNSUPPORTED_FILE
	case errors.Is(err, batch.ErrMissingColumn):
		return http.StatusBadRequest, MSG_MISSING_COLUMN
	default:
		return http.StatusInternalServerError, MSG_PROCESSING_ERROR + err.Error()
	}
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Detail: detail})
}
