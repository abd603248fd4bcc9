package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/logger"
)

const (
	providerName = "gemini"

	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3

	initialRetryInterval = 2 * time.Second
	maxRetryInterval     = 20 * time.Second
	// maxQuotaDelay is the longest server-requested delay worth waiting for.
	maxQuotaDelay = 30 * time.Second
)

var sleep = time.Sleep

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator sends a system instruction and a single user message to Gemini
// and returns the text answer, retrying temporary API failures.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	jsonOutput bool
	logger     *zap.Logger
}

type Options struct {
	APIKey     string
	Model      string
	MaxRetries int
	// JSON asks the model for an application/json response.
	JSON bool
}

// NewGenerator creates a Generator for the Gemini API backend.
func NewGenerator(ctx context.Context, opts Options, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: maxRetries,
		jsonOutput: opts.JSON,
		logger:     logger.WithCommonFields(log, providerName, model),
	}, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent makes up to maxRetries attempts. Errors are wrapped with
// ai.ErrGeneration.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}
	if g.jsonOutput {
		config.ResponseMIMEType = "application/json"
	}

	attempts := g.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initialRetryInterval
	exp.MaxInterval = maxRetryInterval
	exp.MaxElapsedTime = 0

	policy := &quotaBackOff{BackOff: exp}

	var (
		output  string
		attempt int
	)

	operation := func() error {
		attempt++

		text, err := g.send(ctx, config, message)
		if err == nil {
			output = text
			return nil
		}

		if !retryable(err) {
			return backoff.Permanent(err)
		}

		if delay, ok := quotaDelay(err); ok {
			if delay > maxQuotaDelay {
				g.logger.Warn("quota delay too long, giving up",
					zap.Duration("delay", delay),
					zap.Error(err),
				)
				return backoff.Permanent(err)
			}
			policy.requested = delay
		}

		return err
	}

	notify := func(err error, next time.Duration) {
		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("next_retry_in", next),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotifyWithTimer(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx),
		notify,
		&sleepTimer{},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrGeneration, err)
	}

	return output, nil
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, nil)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", err
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func apiError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// retryable reports whether the error is a rate limit or a server-side failure.
func retryable(err error) bool {
	apiErr, ok := apiError(err)
	if !ok {
		return false
	}
	return apiErr.Code == 429 || apiErr.Code >= 500
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// quotaDelay extracts the delay the API asked for, either from RetryInfo
// details or from the message text.
func quotaDelay(err error) (time.Duration, bool) {
	apiErr, ok := apiError(err)
	if !ok || apiErr.Code != 429 {
		return 0, false
	}

	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d, true
		}
	}

	if m := retryAfterPattern.FindStringSubmatch(apiErr.Message); m != nil {
		seconds, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return time.Duration(seconds * float64(time.Second)), true
		}
	}

	return 0, false
}

// quotaBackOff waits at least the delay the API asked for before the next
// attempt, instead of adding it on top of the exponential interval.
type quotaBackOff struct {
	backoff.BackOff
	requested time.Duration
}

func (b *quotaBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.requested > next {
		next = b.requested
	}
	b.requested = 0
	return next
}

// sleepTimer is a backoff.Timer driven by the package sleep func.
type sleepTimer struct {
	c chan time.Time
}

func (t *sleepTimer) Start(d time.Duration) {
	t.c = make(chan time.Time, 1)
	go func(c chan time.Time) {
		sleep(d)
		c <- time.Now()
	}(t.c)
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time {
	return t.c
}
