package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/burakkho/thrustr-backend/internal/azure"
	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// NarrativeService turns a computed health report into a short coach-style
// summary using Azure OpenAI
type NarrativeService struct {
	aiClient *azure.OpenAIClient
	logger   *zap.Logger
}

// NewNarrativeService creates a new NarrativeService
func NewNarrativeService(aiClient *azure.OpenAIClient, logger *zap.Logger) *NarrativeService {
	return &NarrativeService{
		aiClient: aiClient,
		logger:   logger,
	}
}

// GenerateNarrative produces a plain-text summary of the report
func (n *NarrativeService) GenerateNarrative(ctx context.Context, report *model.HealthReport) (string, error) {
	n.logger.Info("generating report narrative",
		zap.Float64("overall_score", report.Recovery.OverallScore),
		zap.Int("insight_count", len(report.Insights)),
	)

	prompt := n.buildNarrativePrompt(report)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt),
		openai.UserMessage("Write the summary now."),
	}

	response, err := n.aiClient.Complete(ctx, messages)
	if err != nil {
		n.logger.Error("narrative generation failed", zap.Error(err))
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	narrative := strings.TrimSpace(response)
	if narrative == "" {
		return "", fmt.Errorf("narrative generation returned empty text")
	}

	n.logger.Info("report narrative generated successfully",
		zap.Int("length", len(narrative)),
	)

	return narrative, nil
}

// buildNarrativePrompt creates the AI prompt from the computed report
func (n *NarrativeService) buildNarrativePrompt(report *model.HealthReport) string {
	var data strings.Builder

	data.WriteString(fmt.Sprintf("Recovery score: %.0f/100 (%s)\n",
		report.Recovery.OverallScore, report.Recovery.Category))
	data.WriteString(fmt.Sprintf("Sub-scores: HRV %.0f, sleep %.0f, training load %.0f, resting heart rate %.0f\n",
		report.Recovery.HRVScore, report.Recovery.SleepScore,
		report.Recovery.WorkoutLoadScore, report.Recovery.RestingHeartRateScore))
	data.WriteString(fmt.Sprintf("Fitness: overall %s, cardio %s, strength %s, consistency %.0f/100, trend %s\n",
		report.Fitness.OverallLevel, report.Fitness.CardioLevel, report.Fitness.StrengthLevel,
		report.Fitness.ConsistencyScore, report.Fitness.ProgressTrend))
	for _, insight := range report.Insights {
		data.WriteString(fmt.Sprintf("- [%s] %s: %s\n", insight.Priority, insight.Title, insight.Message))
	}

	return fmt.Sprintf(`You are a fitness coach writing a short weekly summary for an athlete based on their computed health report.

Report data:
%s

Rules:
- Write 3 to 5 sentences of plain text, no markdown and no lists
- Lead with the overall recovery state, then the most important insight
- Keep the tone encouraging but honest about problems
- Do not invent numbers that are not in the report data

Write the summary now:`, data.String())
}
