package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"titanic/internal/data"
	"titanic/internal/features"
	"titanic/internal/models"
	"titanic/internal/pipeline"
)

const (
	HeaderAPIKey    = "X-API-Key"
	HeaderRequestID = "X-Request-Id"
)

type Options struct {
	// APIKey, when set, must be sent in X-API-Key on prediction routes.
	APIKey           string
	UseTrainingStats bool
}

type server struct {
	art    *models.Artifact
	opts   Options
	logger *zap.Logger
}

// NewRouter serves the batch transform container protocol: GET /ping,
// POST /invocations (CSV) and POST /predict (JSON).
func NewRouter(art *models.Artifact, opts Options, logger *zap.Logger) *gin.Engine {
	s := &server{art: art, opts: opts, logger: logger}
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(logger))

	r.GET("/ping", s.ping)
	api := r.Group("/")
	api.Use(apiKey(opts.APIKey))
	api.POST("/invocations", s.invocations)
	api.POST("/predict", s.predict)
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Requisição",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func apiKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader(HeaderAPIKey) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *server) ping(c *gin.Context) {
	if s.art == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "modelo não carregado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.art.Model.Name(), "columns": len(s.art.Columns)})
}

// invocations accepts a CSV body. A body starting with the PassengerId header
// is a full batch; anything else is header-less records, one per line, as sent
// by single-record transform jobs. The reply echoes the header only when the
// request carried one.
func (s *server) invocations(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(string(body)), "\ufeff")
	withHeader := strings.HasPrefix(trimmed, features.ColID+",")
	var raw *data.Table
	if withHeader {
		raw, err = data.ParseCSV(strings.NewReader(trimmed))
	} else {
		raw, err = data.ParseRecords(strings.NewReader(trimmed), data.PassengerHeader, features.ColLabel)
	}
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if !withHeader && raw.Len() == 0 {
		c.Data(http.StatusOK, "text/csv", nil)
		return
	}
	preds, err := pipeline.Predict(raw, s.art, pipeline.PredictOptions{UseTrainingStats: s.opts.UseTrainingStats})
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	out := preds.Table()
	if !withHeader {
		out.Header = nil
	}
	var buf bytes.Buffer
	if err := out.Write(&buf); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

type prediction struct {
	PassengerID string `json:"PassengerId"`
	Survived    int    `json:"Survived"`
}

func (s *server) predict(c *gin.Context) {
	var req []data.Passenger
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	raw := data.PassengerTable(req)
	preds, err := pipeline.Predict(raw, s.art, pipeline.PredictOptions{UseTrainingStats: s.opts.UseTrainingStats})
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	out := make([]prediction, len(preds.Labels))
	for i := range out {
		out[i] = prediction{PassengerID: preds.IDs[i], Survived: preds.Labels[i]}
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id":  c.GetString("request_id"),
		"model":       s.art.Model.Name(),
		"predictions": out,
	})
}

func (s *server) fail(c *gin.Context, status int, err error) {
	s.logger.Warn("Falha na previsão", zap.String("request_id", c.GetString("request_id")), zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "request_id": c.GetString("request_id")})
}

func statusFor(err error) int {
	var mismatch *features.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
