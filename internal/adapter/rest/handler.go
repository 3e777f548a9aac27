package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/stockpicker-backend/internal/domain"
	"github.com/simaogato/stockpicker-backend/internal/logger"
	"github.com/simaogato/stockpicker-backend/internal/usecase/portfolio"
)

// Handler serves the JSON API over a PortfolioService
type Handler struct {
	PortfolioService *portfolio.PortfolioService
	Log              *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(portfolioService *portfolio.PortfolioService, log *zap.SugaredLogger) *Handler {
	return &Handler{
		PortfolioService: portfolioService,
		Log:              log,
	}
}

// Router builds the gin engine; every route except /healthz requires the token
func (h *Handler) Router(token string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.logRequest)

	router.GET("/healthz", h.health)

	api := router.Group("/", authMiddleware(token))
	api.GET("/assets", h.listAssets)
	api.POST("/assets", h.addAsset)
	api.PUT("/assets/:id", h.updateAsset)
	api.DELETE("/assets/:id", h.removeAsset)
	api.POST("/optimize", h.optimize)

	return router
}

func authMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			returnErrorJsonCode(errors.New("missing authorization header"), c, http.StatusUnauthorized)
			return
		}
		if strings.TrimPrefix(header, "Bearer ") != validToken {
			returnErrorJsonCode(errors.New("invalid token"), c, http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func (h *Handler) logRequest(c *gin.Context) {
	start := time.Now()
	reqLog := h.Log.With("method", c.Request.Method, "route", c.FullPath())
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

	c.Next()

	status := c.Writer.Status()
	fields := []interface{}{"status", status, "duration", time.Since(start)}
	switch {
	case status >= http.StatusInternalServerError:
		reqLog.Errorw("http request", append(fields, "errors", c.Errors.String())...)
	case status >= http.StatusBadRequest:
		reqLog.Warnw("http request", fields...)
	default:
		reqLog.Infow("http request", fields...)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listAssets(c *gin.Context) {
	assets, err := h.PortfolioService.ListAssets(c.Request.Context())
	if err != nil {
		returnError(err, c)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"assets": out})
}

func (h *Handler) addAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	parsed, err := domain.ParseAsset(-1, req.Symbol, string(req.Price), string(req.ExpectedReturn))
	if err != nil {
		returnError(err, c)
		return
	}

	asset, err := h.PortfolioService.AddAsset(c.Request.Context(), portfolio.AddAssetInput{
		Symbol:         parsed.Symbol,
		Price:          parsed.Price,
		ExpectedReturn: parsed.ExpectedReturn,
	})
	if err != nil {
		returnError(err, c)
		return
	}

	c.JSON(http.StatusCreated, toAssetResponse(*asset))
}

func (h *Handler) updateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	input := portfolio.UpdateAssetInput{Symbol: req.Symbol}
	var err error
	if input.Price, err = optionalDecimal(domain.FieldPrice, req.Price); err != nil {
		returnError(err, c)
		return
	}
	if input.ExpectedReturn, err = optionalDecimal(domain.FieldExpectedReturn, req.ExpectedReturn); err != nil {
		returnError(err, c)
		return
	}

	asset, err := h.PortfolioService.UpdateAsset(c.Request.Context(), id, input)
	if err != nil {
		returnError(err, c)
		return
	}

	c.JSON(http.StatusOK, toAssetResponse(*asset))
}

func (h *Handler) removeAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.PortfolioService.RemoveAsset(c.Request.Context(), id); err != nil {
		returnError(err, c)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	budget, err := req.budget()
	if err != nil {
		returnError(err, c)
		return
	}

	ctx := c.Request.Context()
	var result *domain.AllocationResult
	if req.Assets == nil {
		result, err = h.PortfolioService.OptimizeStored(ctx, budget)
	} else {
		assets, parseErr := req.assets()
		if parseErr != nil {
			returnError(parseErr, c)
			return
		}
		result, err = h.PortfolioService.Optimize(ctx, budget, assets)
	}
	if err != nil {
		returnError(err, c)
		return
	}

	c.JSON(http.StatusOK, toAllocationResponse(result))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(errors.New("invalid id format: "+err.Error()), c, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// returnError maps domain errors to HTTP status codes
func returnError(err error, c *gin.Context) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrAssetNotFound):
		code = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	returnErrorJsonCode(err, c, code)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}
