package service

import (
	"context"

	"patent-scout-be/internal/dto"
	"patent-scout-be/internal/pkg/logger"
	"patent-scout-be/internal/repository/memory"
	"patent-scout-be/pkg/events"
)

type ILogService interface {
	Report(ctx context.Context, req *dto.ClientErrorReport)
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
	GetLogById(id string) (*logger.LogEntry, error)
}

// logService records errors the browser reports back. Reports tied to a
// live session are also raised on that session's bus so other tabs see them.
type logService struct {
	sysLogger    logger.ILogger
	liveSessions *memory.LiveSessionRepository
}

func NewLogService(sysLogger logger.ILogger, liveSessions *memory.LiveSessionRepository) ILogService {
	return &logService{
		sysLogger:    sysLogger,
		liveSessions: liveSessions,
	}
}

func (s *logService) Report(ctx context.Context, req *dto.ClientErrorReport) {
	details := map[string]interface{}{
		"source": req.Source,
	}
	if req.SessionId != "" {
		details["session_id"] = req.SessionId
	}
	for k, v := range req.Context {
		details["ctx_"+k] = v
	}
	s.sysLogger.Error("client", req.Message, details)

	if req.SessionId == "" {
		return
	}
	// Only live sessions; an error report is no reason to rehydrate.
	if rt, ok := s.liveSessions.Get(req.SessionId); ok {
		rt.Emit(events.ErrorRaised, map[string]interface{}{
			"code":    "CLIENT_ERROR",
			"message": req.Message,
			"source":  req.Source,
		})
	}
}

func (s *logService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.sysLogger.GetLogs(level, limit, offset)
}

func (s *logService) GetLogById(id string) (*logger.LogEntry, error) {
	return s.sysLogger.GetLogById(id)
}
