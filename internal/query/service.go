// Package query implements the session-scoped LLM operations: risk
// analysis, grounded chat, and stateless clause rewriting.
package query

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/session"
)

// Generator is the text completion capability the service needs.
type Generator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service answers analysis, chat, and rewrite requests over stored sessions.
type Service struct {
	generator Generator
	sessions  session.Store
	logger    *observability.Logger
}

// NewService creates a query service.
func NewService(generator Generator, sessions session.Store, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{
		generator: generator,
		sessions:  sessions,
		logger:    logger.WithComponent("query"),
	}
}

// Analyze identifies up to three substantial legal risks in the session's
// document. Every returned quote is guaranteed to appear verbatim (modulo
// whitespace) in the document text; risks whose quotes cannot be located are
// dropped, never repaired, and the result is never padded back up.
func (s *Service) Analyze(ctx context.Context, sessionID string) (domain.AnalysisResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	raw, err := s.generator.Complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(sess.DocumentText))
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result, err := parseAnalysis(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Malformed analysis response")
		return domain.AnalysisResult{}, err
	}

	kept := make([]domain.Risk, 0, domain.MaxRisks)
	for _, risk := range result.Risks {
		if len(kept) == domain.MaxRisks {
			break
		}
		if !domain.ContainsVerbatim(sess.DocumentText, risk.Quote) {
			s.logger.Warn().Str("session_id", sessionID).Msg("Dropping risk with unverifiable quote")
			continue
		}
		risk.Explanation = domain.CleanText(risk.Explanation)
		kept = append(kept, risk)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("risks", len(kept)).
		Msg("Analysis complete")

	return domain.AnalysisResult{Risks: kept}, nil
}

// Chat answers a free-form question grounded in the session's document.
func (s *Service) Chat(ctx context.Context, sessionID, userQuery string) (domain.ChatTurn, error) {
	if strings.TrimSpace(userQuery) == "" {
		return domain.ChatTurn{}, domain.ValidationError("query must not be empty", nil)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.ChatTurn{}, err
	}

	answer, err := s.generator.Complete(ctx, chatSystemPrompt, buildChatPrompt(sess.DocumentText, userQuery))
	if err != nil {
		return domain.ChatTurn{}, err
	}

	return domain.ChatTurn{
		Query:  userQuery,
		Answer: domain.CleanText(answer),
	}, nil
}

// Rewrite rewrites a clause in the client's favor. Stateless: no session is
// consulted or created.
func (s *Service) Rewrite(ctx context.Context, clause string) (domain.RewriteResult, error) {
	if strings.TrimSpace(clause) == "" {
		return domain.RewriteResult{}, domain.ValidationError("clause must not be empty", nil)
	}

	rewritten, err := s.generator.Complete(ctx, rewriteSystemPrompt, buildRewritePrompt(clause))
	if err != nil {
		return domain.RewriteResult{}, err
	}

	cleaned := domain.CleanText(rewritten)
	if cleaned == "" {
		return domain.RewriteResult{}, domain.GenerationError("empty rewrite response", nil)
	}

	return domain.RewriteResult{RewrittenText: cleaned}, nil
}

// parseAnalysis decodes and schema-checks a raw analysis completion.
// Generation services wrap JSON in markdown fences often enough that
// stripping them is table stakes.
func parseAnalysis(raw string) (domain.AnalysisResult, error) {
	cleaned := stripJSONFences(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return domain.AnalysisResult{}, domain.GenerationError("analysis response is not valid JSON", err)
	}
	if err := validateAnalysis(doc); err != nil {
		return domain.AnalysisResult{}, domain.GenerationError("analysis response failed schema validation", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return domain.AnalysisResult{}, domain.GenerationError("decode analysis response", err)
	}
	return result, nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
