package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"worksearch.app/aggregator/common/logger"
	"worksearch.app/aggregator/internal/aggregator"
	"worksearch.app/aggregator/internal/filter"
	"worksearch.app/aggregator/internal/http/dto"
	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/query"
	"worksearch.app/aggregator/internal/retriever/messaging"
	"worksearch.app/aggregator/internal/service"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid search request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	searchReq, err := toSearchRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx = tagRequest(c, logger.LogFields{
		SearchTerm: logger.Ptr(searchReq.Term),
		Scope:      logger.Ptr(string(searchReq.Scope)),
	})

	result, err := h.searchService.Search(ctx, searchReq)
	if err != nil {
		writeSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSearchResponse(result))
}

func (h *SearchHandler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid query request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx = tagRequest(c, logger.LogFields{SearchTerm: logger.Ptr(logger.Truncate(req.Query, 200))})

	params, result, err := h.searchService.Query(ctx, req.Query)
	if err != nil {
		writeSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{
		Parsed:         dto.ToParsedQueryResponse(params),
		SearchResponse: dto.ToSearchResponse(result),
	})
}

func (h *SearchHandler) ClearCache(c *gin.Context) {
	if err := h.searchService.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}
	c.Status(http.StatusNoContent)
}

// tagRequest adds search fields to the request context so later log lines,
// including panic recovery, carry them.
func tagRequest(c *gin.Context, fields logger.LogFields) context.Context {
	ctx := logger.WithLogFields(c.Request.Context(), fields)
	c.Request = c.Request.WithContext(ctx)
	return ctx
}

func writeSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrNoHashtag), errors.Is(err, messaging.ErrHashtagRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, aggregator.ErrPlatformNotConfigured):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
	}
}

func toSearchRequest(req dto.SearchRequest) (service.SearchRequest, error) {
	scope, err := model.ParseScope(req.Platform)
	if err != nil {
		return service.SearchRequest{}, err
	}
	status, err := model.ParseStatusFilter(req.Status)
	if err != nil {
		return service.SearchRequest{}, err
	}
	from, err := parseDate("from", req.From)
	if err != nil {
		return service.SearchRequest{}, err
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		return service.SearchRequest{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return service.SearchRequest{}, errors.New("to must not be before from")
	}

	return service.SearchRequest{
		Term:  req.Term,
		Scope: scope,
		Filter: filter.Options{
			Platform: scope.Platform(),
			Text:     req.Text,
			Status:   status,
			From:     from,
			To:       to,
		},
	}, nil
}

func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a YYYY-MM-DD date", field)
	}
	return &t, nil
}
