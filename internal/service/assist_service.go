package service

import (
	"context"
	"errors"
	"strings"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/orchestrator"
	"patent-scout-be/pkg/upstream"
)

type IAssistService interface {
	ImproveDescription(ctx context.Context, req *dto.ImproveDescriptionRequest) (*dto.ImproveDescriptionResponse, error)
	GenerateKeywords(ctx context.Context, req *dto.GenerateKeywordsRequest) (*dto.KeywordsResponse, error)
	GenerateMoreKeywords(ctx context.Context, req *dto.GenerateMoreKeywordsRequest) (*dto.KeywordsResponse, error)
	GetPatentInfo(ctx context.Context, sessionId, publicationNumber string) (*dto.PatentInfoResponse, error)
	SuggestAssignees(ctx context.Context, query string) ([]string, error)
}

// assistService fronts the AI-assist API. Each completed call is fed back
// into the owning session's bus so the state tree picks up the result the
// same way it picks up any other event.
type assistService struct {
	sessionService ISessionService
	upstreamClient *upstream.Client
	sysLogger      logger.ILogger
}

func NewAssistService(
	sessionService ISessionService,
	upstreamClient *upstream.Client,
	sysLogger logger.ILogger,
) IAssistService {
	return &assistService{
		sessionService: sessionService,
		upstreamClient: upstreamClient,
		sysLogger:      sysLogger,
	}
}

func (s *assistService) ImproveDescription(ctx context.Context, req *dto.ImproveDescriptionRequest) (*dto.ImproveDescriptionResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is empty")
	}

	rt, err := s.sessionService.Resolve(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	improved, err := s.upstreamClient.ImproveDescription(ctx, req.Description)
	if err != nil {
		s.raise(rt, "IMPROVE_FAILED", err)
		return nil, err
	}

	rt.Emit(events.DescriptionImproveCompleted, map[string]interface{}{
		"newDescription":      improved.NewDescription,
		"modificationSummary": improved.ModificationSummary,
	})

	return &dto.ImproveDescriptionResponse{
		NewDescription:      improved.NewDescription,
		Overview:            improved.Overview,
		ModificationSummary: improved.ModificationSummary,
	}, nil
}

func (s *assistService) GenerateKeywords(ctx context.Context, req *dto.GenerateKeywordsRequest) (*dto.KeywordsResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is empty")
	}

	rt, err := s.sessionService.Resolve(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	keywords, err := s.upstreamClient.GenerateKeywords(ctx, req.Description)
	if err != nil {
		s.raise(rt, "KEYWORDS_FAILED", err)
		return nil, err
	}

	rt.Emit(events.KeywordsGenerateCompleted, map[string]interface{}{
		"keywords": keywords,
	})

	return &dto.KeywordsResponse{Keywords: keywords}, nil
}

func (s *assistService) GenerateMoreKeywords(ctx context.Context, req *dto.GenerateMoreKeywordsRequest) (*dto.KeywordsResponse, error) {
	rt, err := s.sessionService.Resolve(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	more, err := s.upstreamClient.GenerateAdditionalKeywords(ctx, req.Current, req.Description, req.Method)
	if err != nil {
		s.raise(rt, "KEYWORDS_FAILED", err)
		return nil, err
	}

	// Additional keywords extend the list; the merged set replaces it.
	// The upstream may echo keywords the user already has.
	merged := append([]string{}, req.Current...)
	seen := make(map[string]struct{}, len(merged))
	for _, kw := range merged {
		seen[kw] = struct{}{}
	}
	for _, kw := range more {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		merged = append(merged, kw)
	}
	rt.Emit(events.KeywordsGenerateCompleted, map[string]interface{}{
		"keywords": merged,
	})

	return &dto.KeywordsResponse{Keywords: merged}, nil
}

func (s *assistService) GetPatentInfo(ctx context.Context, sessionId, publicationNumber string) (*dto.PatentInfoResponse, error) {
	if strings.TrimSpace(publicationNumber) == "" {
		return nil, errors.New("publication number is empty")
	}

	rt, err := s.sessionService.Resolve(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	data, err := s.upstreamClient.GetPatentInfo(ctx, publicationNumber)
	if err != nil {
		s.raise(rt, "PATENT_LOOKUP_FAILED", err)
		return nil, err
	}

	rt.Session.SetPatent(data)
	return &dto.PatentInfoResponse{Data: data}, nil
}

func (s *assistService) SuggestAssignees(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return []string{}, nil
	}
	return s.upstreamClient.SuggestAssignees(ctx, query)
}

func (s *assistService) raise(rt *orchestrator.Runtime, code string, err error) {
	rt.Emit(events.ErrorRaised, map[string]interface{}{
		"code":    code,
		"message": err.Error(),
	})
	s.sysLogger.Error("assist", "upstream call failed", map[string]interface{}{
		"session_id": rt.ID(),
		"code":       code,
		"error":      err.Error(),
	})
}
