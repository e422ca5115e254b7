package service

import (
	"context"
	"errors"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/orchestrator"
	"patent-scout-be/pkg/state"
	"patent-scout-be/pkg/upstream"

	"github.com/google/uuid"
)

// ErrFreeTierLimit is returned when an anonymous visitor exhausts their
// search allowance. Controllers map it to 402.
var ErrFreeTierLimit = errors.New("free tier search limit reached")

type ISearchService interface {
	Run(ctx context.Context, sessionId string, userId *uuid.UUID, req *dto.RunSearchRequest) (*dto.RunSearchResponse, error)
	NextPage(ctx context.Context, sessionId string) (*dto.PageResponse, error)
	PrevPage(ctx context.Context, sessionId string) (*dto.PageResponse, error)
	Select(ctx context.Context, sessionId string, index int) (*dto.PageResponse, error)
}

type searchService struct {
	sessionService ISessionService
	upstreamClient *upstream.Client
	quota          *memory.QuotaRepository
	freeLimit      int
	sysLogger      logger.ILogger
}

func NewSearchService(
	sessionService ISessionService,
	upstreamClient *upstream.Client,
	quota *memory.QuotaRepository,
	freeLimit int,
	sysLogger logger.ILogger,
) ISearchService {
	return &searchService{
		sessionService: sessionService,
		upstreamClient: upstreamClient,
		quota:          quota,
		freeLimit:      freeLimit,
		sysLogger:      sysLogger,
	}
}

// Run executes a search for the session's current state. Anonymous visitors
// are counted against the free-tier allowance by their fingerprint; a
// missing fingerprint gets a fresh one (the client is expected to keep it).
// A generation counter taken before the upstream call makes sure a slow
// response never overwrites the results of a search started after it.
func (s *searchService) Run(ctx context.Context, sessionId string, userId *uuid.UUID, req *dto.RunSearchRequest) (*dto.RunSearchResponse, error) {
	rt, err := s.sessionService.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if userId == nil {
		fingerprint := req.VisitorId
		if fingerprint == "" {
			fingerprint = state.NewID()
		}
		count := s.quota.Increment(fingerprint)
		if count > s.freeLimit {
			rt.Emit(events.ErrorRaised, map[string]interface{}{
				"code":    "FREE_TIER_LIMIT",
				"message": ErrFreeTierLimit.Error(),
			})
			s.sysLogger.Info("search", "free tier limit hit", map[string]interface{}{
				"session_id":  sessionId,
				"fingerprint": fingerprint,
				"count":       count,
			})
			return nil, ErrFreeTierLimit
		}
	}

	input := s.buildInput(rt)
	gen := rt.Session.BeginSearch()
	rt.Emit(events.SearchStarted, map[string]interface{}{"session_id": sessionId})

	results, err := s.upstreamClient.ExecuteSearch(ctx, input)
	if err != nil {
		rt.Emit(events.ErrorRaised, map[string]interface{}{
			"code":    "SEARCH_FAILED",
			"message": err.Error(),
		})
		s.sysLogger.Error("search", "upstream search failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	applied := rt.Session.ApplyResults(gen, results)
	rt.Emit(events.SearchCompleted, map[string]interface{}{
		"session_id": sessionId,
		"hits":       len(results),
		"applied":    applied,
	})

	view := rt.Session.SearchView()
	return &dto.RunSearchResponse{
		Applied:     applied,
		TotalHits:   len(results),
		CurrentPage: view.CurrentPage,
		TotalPages:  view.TotalPages,
		Items:       view.Items,
	}, nil
}

func (s *searchService) buildInput(rt *orchestrator.Runtime) upstream.SearchInput {
	query := rt.Session.QueryView()
	return upstream.SearchInput{
		Library:     string(query.Library),
		Method:      string(query.Method),
		Query:       query.SearchValue,
		Description: query.Description,
		Filters:     rt.Session.SortedFilters(),
	}
}

func (s *searchService) NextPage(ctx context.Context, sessionId string) (*dto.PageResponse, error) {
	rt, err := s.sessionService.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	rt.Emit(events.SearchPageNext, nil)
	return s.pageResponse(rt), nil
}

func (s *searchService) PrevPage(ctx context.Context, sessionId string) (*dto.PageResponse, error) {
	rt, err := s.sessionService.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	rt.Emit(events.SearchPagePrev, nil)
	return s.pageResponse(rt), nil
}

func (s *searchService) Select(ctx context.Context, sessionId string, index int) (*dto.PageResponse, error) {
	rt, err := s.sessionService.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	rt.Emit(events.ResultSelected, map[string]interface{}{"index": index})
	return s.pageResponse(rt), nil
}

func (s *searchService) pageResponse(rt *orchestrator.Runtime) *dto.PageResponse {
	view := rt.Session.SearchView()
	return &dto.PageResponse{
		CurrentPage: view.CurrentPage,
		TotalPages:  view.TotalPages,
		ActiveItem:  view.ActiveItem,
		Items:       view.Items,
	}
}
