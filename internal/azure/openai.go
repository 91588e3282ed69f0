package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"go.uber.org/zap"
)

// OpenAIClient wraps the Azure OpenAI chat-completions API behind retry
// logic and structured logging. Report narratives are its only caller, so
// the surface stays deliberately small: one Complete method.
type OpenAIClient struct {
	client     *openai.Client
	deployment string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewOpenAIClient creates an Azure OpenAI client using the openai-go SDK
// with Azure extensions
func NewOpenAIClient(endpoint, apiKey, deployment string, logger *zap.Logger) (*OpenAIClient, error) {
	if endpoint == "" || apiKey == "" || deployment == "" {
		return nil, fmt.Errorf("endpoint, apiKey, and deployment are required")
	}

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, "2024-08-01-preview"),
		azure.WithAPIKey(apiKey),
	)

	return &OpenAIClient{
		client:     &client,
		deployment: deployment,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
	}, nil
}

// Complete sends a chat completion request, retrying transient failures
// with exponential backoff. The wait between attempts respects ctx, so a
// cancelled request never sits out a backoff delay.
func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying Azure OpenAI request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("Azure OpenAI request cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := c.completeOnce(ctx, messages)
		if err == nil {
			processingTime := time.Since(startTime)
			c.logger.Info("Azure OpenAI request completed",
				zap.Duration("processing_time", processingTime),
				zap.Int("attempts", attempt+1),
			)
			return result, nil
		}

		lastErr = err
		if !c.isRetryable(err) {
			c.logger.Error("non-retryable Azure OpenAI error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		c.logger.Warn("Azure OpenAI request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	processingTime := time.Since(startTime)
	c.logger.Error("Azure OpenAI request failed after retries",
		zap.Error(lastErr),
		zap.Duration("total_time", processingTime),
		zap.Int("max_retries", c.maxRetries),
	)

	return "", fmt.Errorf("Azure OpenAI request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// completeOnce performs a single chat completion request against the
// configured deployment
func (c *OpenAIClient) completeOnce(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	requestStart := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.deployment),
		Messages: messages,
	})

	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from Azure OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	// Log token usage and processing time
	requestTime := time.Since(requestStart)
	c.logger.Info("Azure OpenAI token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("request_time", requestTime),
	)

	return content, nil
}

// isRetryable classifies an error as transient or permanent. Context
// cancellation, authentication failures and malformed requests never
// succeed on a retry; rate limits, timeouts and network errors might.
func (c *OpenAIClient) isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// The SDK does not expose typed errors for every failure mode, so fall
	// back to matching the message.
	errStr := err.Error()

	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") {
		return false
	}

	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request") || strings.Contains(errStr, "400") {
		return false
	}

	return true
}
