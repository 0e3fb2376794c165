package service

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"loan-voice-be/internal/constant"
	"loan-voice-be/internal/model"
	"loan-voice-be/internal/pkg/logger"
	"loan-voice-be/pkg/llm"
	"loan-voice-be/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// IExtractionService turns a full conversation transcript into the fixed
// loan-application schema. It never fails: any fault degrades to the
// all-null/false schema.
type IExtractionService interface {
	Extract(ctx context.Context, transcript string) model.LoanFields
}

type extractionService struct {
	provider llm.LLMProvider
	results  *cache.Cache
	timeout  time.Duration
	logger   logger.ILogger
}

func NewExtractionService(provider llm.LLMProvider, timeout time.Duration, log logger.ILogger) IExtractionService {
	// Extraction re-fires on every completed response over the full
	// transcript; identical snapshots (e.g. assistant-only turns) hit
	// the cache instead of the model.
	return &extractionService{
		provider: provider,
		results:  cache.New(10*time.Minute, 5*time.Minute),
		timeout:  timeout,
		logger:   log,
	}
}

func (s *extractionService) Extract(ctx context.Context, transcript string) model.LoanFields {
	key := fmt.Sprintf("%x", md5.Sum([]byte(transcript)))
	if hit, found := s.results.Get(key); found {
		return hit.(model.LoanFields)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: constant.ExtractionSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(constant.ExtractionPromptTemplate, transcript)},
		},
		llm.WithTemperature(0),
		llm.WithMaxTokens(300),
	)
	if err != nil {
		s.logger.Warn("ExtractionService", "Extraction call failed, returning empty schema", map[string]interface{}{"error": err.Error()})
		return model.LoanFields{}
	}

	var parsed map[string]interface{}
	if err := utils.UnmarshalLenient(raw, &parsed); err != nil {
		s.logger.Warn("ExtractionService", "Model output was not JSON, returning empty schema", map[string]interface{}{"error": err.Error()})
		return model.LoanFields{}
	}

	fields := model.LoanFieldsFromMap(parsed)
	s.results.Set(key, fields, cache.DefaultExpiration)
	return fields
}
