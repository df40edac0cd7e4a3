package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"market-intel/config"
	"market-intel/internal/dto"
	"market-intel/internal/model"
	"market-intel/pkg/apperrors"
	"market-intel/pkg/common"
	"market-intel/pkg/decoder"
	"market-intel/pkg/httpclient"
	"market-intel/pkg/logger"
	"market-intel/pkg/ratelimit"
	"market-intel/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	systemAnalyst          = "You are a Financial Analyst."
	systemPortfolioManager = "You are a Portfolio Manager."
)

type AIRepository interface {
	// ExtractThemes asks the model for investment themes found in rawText.
	// The text is bounded before sending; a response that cannot be
	// recovered as JSON yields ErrParseFailure and is never retried.
	ExtractThemes(ctx context.Context, source, rawText string) ([]dto.ThemeCandidate, error)

	// SelectInstruments asks the model to pick at most two instruments from
	// the universe menu for the theme. Tickers come back unvalidated.
	SelectInstruments(ctx context.Context, theme model.MarketTheme, universeMenu string) ([]dto.InstrumentMatch, error)
}

// geminiAIRepository talks to the Google Gemini API, budgeting both request
// and token quotas before every call.
type geminiAIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, limiters *ratelimit.ProviderStore) (AIRepository, error) {
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		httpClient:     httpclient.New(log, cfg.Gemini.BaseURL, cfg.Gemini.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: limiters.Get(common.PROVIDER_GEMINI),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) ExtractThemes(ctx context.Context, source, rawText string) ([]dto.ThemeCandidate, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, nil
	}

	bounded := utils.TruncateText(rawText, r.cfg.Pipeline.MaxPromptChars)
	prompt := r.promptExtractThemes(bounded)

	raw, err := r.sendRequest(ctx, systemAnalyst, prompt)
	if err != nil {
		return nil, fmt.Errorf("theme extraction request failed: %w", err)
	}

	var themes []dto.ThemeCandidate
	if err := decoder.DecodeJSON(raw, &themes); err != nil {
		r.logger.WarnContext(ctx, "Model output not recoverable as theme JSON",
			logger.StringField("source", source),
			logger.ErrorField(err),
		)
		return nil, err
	}

	return themes, nil
}

func (r *geminiAIRepository) SelectInstruments(ctx context.Context, theme model.MarketTheme, universeMenu string) ([]dto.InstrumentMatch, error) {
	prompt := r.promptSelectInstruments(theme, universeMenu)

	raw, err := r.sendRequest(ctx, systemPortfolioManager, prompt)
	if err != nil {
		return nil, fmt.Errorf("instrument selection request failed: %w", err)
	}

	var matches []dto.InstrumentMatch
	if err := decoder.DecodeJSON(raw, &matches); err != nil {
		r.logger.WarnContext(ctx, "Model output not recoverable as selection JSON",
			logger.StringField("theme", theme.Title),
			logger.ErrorField(err),
		)
		return nil, err
	}

	return matches, nil
}

// sendRequest waits on the token and request budgets, then calls
// generateContent and returns the first candidate's text.
func (r *geminiAIRepository) sendRequest(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to count tokens: %v", apperrors.ErrUnavailable, err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		SystemInstruction: &dto.Content{Parts: []dto.Part{{Text: system}}},
		Contents:          []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.BaseModel, r.cfg.Gemini.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return "", fmt.Errorf("failed to send request to gemini: %w", err)
	}

	if geminiResp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return "", fmt.Errorf("%w: gemini returned status %d", apperrors.ErrUnavailable, geminiResp.StatusCode)
	}

	if len(geminiAPIResponse.Candidates) == 0 || len(geminiAPIResponse.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content in gemini response", apperrors.ErrParseFailure)
	}

	return geminiAPIResponse.Candidates[0].Content.Parts[0].Text, nil
}
