package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-lp/pkg/model"
	"go.uber.org/zap"
)

const (
	requestIdKey    = "request_id"
	requestIdMaxLen = 64
)

type CompileResponse struct {
	Id        string   `json:"id"`
	Model     string   `json:"model"`
	Legend    string   `json:"legend,omitempty"`
	Warnings  []string `json:"warnings"`
	Variables uint64   `json:"variables"`
	Rows      int      `json:"rows"`
}

type ErrorResponse struct {
	Id       string   `json:"id"`
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

type Handler struct {
	compilers    map[bool]model.Compiler // Keyed by whether rooms are modeled
	rooms        bool
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewHandler(options model.Options, rooms bool, maxBodyBytes int64, logger *zap.Logger) *Handler {
	options.Logger = logger
	return &Handler{
		compilers: map[bool]model.Compiler{
			false: model.NewTimeOnlyCompiler(options),
			true:  model.NewEmbeddedRoomCompiler(options),
		},
		rooms:        rooms,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// NewRouter wires the compile service routes
func NewRouter(handler *Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestId(), requestLogger(handler.logger))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/compile", handler.Compile)

	return engine
}

// Compile answers the LP model of the instance sent as body. Query parameters: format (json | xml), rooms (bool) and legend (bool)
func (h *Handler) Compile(c *gin.Context) {
	id := c.GetString(requestIdKey)

	rooms := h.rooms
	if value := c.Query("rooms"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Id: id, Error: fmt.Sprintf("invalid rooms parameter %q", value)})
			return
		}
		rooms = parsed
	}

	var decode func(bytes []byte) (model.Instance, model.Diagnostics, error)
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		decode = model.DecodeJson
	case "xml":
		decode = model.DecodeXml
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Id: id, Error: fmt.Sprintf("unknown format %q", format)})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Id: id, Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Id: id, Error: err.Error()})
		return
	}

	input, diagnostics, err := decode(body)
	if err != nil {
		h.fail(c, id, err, diagnostics)
		return
	}

	result, err := h.compilers[rooms].Compile(input)
	diagnostics = append(diagnostics, result.Diagnostics...)
	if err != nil {
		h.fail(c, id, err, diagnostics)
		return
	}

	response := CompileResponse{
		Id:        id,
		Model:     result.Model.ToLP(),
		Warnings:  diagnostics.Strings(),
		Variables: result.Model.Variables(),
		Rows:      len(result.Model.Rows),
	}
	if legend, _ := strconv.ParseBool(c.Query("legend")); legend {
		response.Legend = result.Legend()
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) fail(c *gin.Context, id string, err error, diagnostics model.Diagnostics) {
	status := http.StatusBadRequest

	var precondition model.PreconditionError
	var collision model.CollisionError
	switch {
	case errors.As(err, &precondition):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &collision):
		status = http.StatusInternalServerError
	}

	h.logger.Warn("compilation failed", zap.String("id", id), zap.Error(err))
	c.JSON(status, ErrorResponse{Id: id, Error: err.Error(), Warnings: diagnostics.Strings()})
}

// Reuses the caller's X-Request-ID when it is sensible, otherwise mints one
func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > requestIdMaxLen {
			id = uuid.New().String()
		}

		c.Set(requestIdKey, id)
		c.Header("X-Request-ID", id)

		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("request_id", c.GetString(requestIdKey)),
			zap.Duration("latency", time.Since(start)),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else if c.Writer.Status() >= http.StatusBadRequest {
			logger.Warn("request rejected", fields...)
		} else {
			logger.Info("request served", fields...)
		}
	}
}
