package dto

import (
	"time"

	"worksearch.app/aggregator/internal/model"
	"worksearch.app/aggregator/internal/query"
	"worksearch.app/aggregator/internal/report"
	"worksearch.app/aggregator/internal/service"
)

type SearchRequest struct {
	Term     string  `json:"term" binding:"required,max=255"`
	Platform string  `json:"platform,omitempty"`
	Text     string  `json:"text,omitempty" binding:"max=255"`
	Status   string  `json:"status,omitempty"`
	From     *string `json:"from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	To       *string `json:"to,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

type QueryRequest struct {
	Query string `json:"query" binding:"required,max=1000"`
}

type RecordResponse struct {
	SourcePlatform model.Platform `json:"source_platform"`
	Provider       model.Provider `json:"provider"`
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Author         string         `json:"author"`
	CreationDate   string         `json:"creation_date"`
	ContentType    string         `json:"content_type"`
	ChannelID      *string        `json:"channel_id,omitempty"`
	Status         *model.Status  `json:"status,omitempty"`
}

type SearchResponse struct {
	Records   []RecordResponse `json:"records"`
	Summary   report.Summary   `json:"summary"`
	Warnings  []string         `json:"warnings"`
	FromCache bool             `json:"from_cache"`
	FetchedAt time.Time        `json:"fetched_at"`
}

type ParsedQueryResponse struct {
	SearchTerm *string            `json:"search_term"`
	Platform   model.Scope        `json:"platform"`
	Status     model.StatusFilter `json:"status"`
	DateFloor  *string            `json:"date_floor,omitempty"`
}

type QueryResponse struct {
	Parsed ParsedQueryResponse `json:"parsed"`
	SearchResponse
}

func ToRecordResponse(r model.Record) RecordResponse {
	resp := RecordResponse{
		SourcePlatform: r.Platform,
		Provider:       r.Provider,
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Author:         r.Author,
		CreationDate:   r.CreationDate(),
		ContentType:    r.ContentType,
	}
	if r.Messaging != nil {
		channel := r.Messaging.ChannelID
		status := r.Messaging.Status
		resp.ChannelID = &channel
		resp.Status = &status
	}
	return resp
}

func ToSearchResponse(res *service.SearchResult) SearchResponse {
	records := make([]RecordResponse, len(res.Records))
	for i, r := range res.Records {
		records[i] = ToRecordResponse(r)
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return SearchResponse{
		Records:   records,
		Summary:   res.Summary,
		Warnings:  warnings,
		FromCache: res.FromCache,
		FetchedAt: res.FetchedAt,
	}
}

func ToParsedQueryResponse(p query.Params) ParsedQueryResponse {
	resp := ParsedQueryResponse{
		SearchTerm: p.SearchTerm,
		Platform:   p.Scope,
		Status:     p.Status,
	}
	if p.DateFloor != nil {
		floor := p.DateFloor.Format(time.DateOnly)
		resp.DateFloor = &floor
	}
	return resp
}
