package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/burakkho/thrustr-backend/pkg/model"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// PDFGenerator renders generated health reports as printable documents
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report rendering
type ReportData struct {
	UserID    string
	Report    *model.HealthReport
	Narrative *string
}

// Generate creates a PDF document from the provided report
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("user_id", data.UserID),
		zap.Float64("overall_score", data.Report.Recovery.OverallScore),
	)

	// Create new PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Add page
	pdf.AddPage()

	// Add title
	g.addTitle(pdf, "Health Intelligence Report", data.UserID, data.Report.GeneratedAt)

	// Add all sections
	g.addRecoverySummary(pdf, data.Report.Recovery)
	g.addScoreBreakdown(pdf, data.Report.Recovery)
	g.addInsights(pdf, data.Report.Insights)
	g.addFitnessAssessment(pdf, data.Report.Fitness)
	g.addNarrative(pdf, data.Narrative)

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userID string, generatedAt time.Time) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("User: %s", userID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addRecoverySummary adds the overall recovery score and recommendation
func (g *PDFGenerator) addRecoverySummary(pdf *gofpdf.Fpdf, recovery model.RecoveryScore) {
	g.addSectionHeader(pdf, "Recovery")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%.0f / 100 (%s)", recovery.OverallScore, recovery.Category), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	if recovery.Recommendation != "" {
		pdf.MultiCell(0, 5, recovery.Recommendation, "", "L", false)
	}
	pdf.Ln(5)
}

// addScoreBreakdown adds the weighted component scores
func (g *PDFGenerator) addScoreBreakdown(pdf *gofpdf.Fpdf, recovery model.RecoveryScore) {
	g.addSectionHeader(pdf, "Score Breakdown")

	components := []struct {
		name  string
		score float64
	}{
		{"HRV", recovery.HRVScore},
		{"Sleep", recovery.SleepScore},
		{"Workout Load", recovery.WorkoutLoadScore},
		{"Resting Heart Rate", recovery.RestingHeartRateScore},
	}

	for _, component := range components {
		pdf.CellFormat(60, 6, component.name, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%.0f / 100", component.score), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addInsights adds the generated insights section
func (g *PDFGenerator) addInsights(pdf *gofpdf.Fpdf, insights []model.HealthInsight) {
	g.addSectionHeader(pdf, "Insights")

	if len(insights) == 0 {
		pdf.CellFormat(0, 8, "No insights generated for this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, insight := range insights {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s [%s]", insight.Title, insight.Priority), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("  %s", insight.Message), "", "L", false)

		if insight.Action != nil && *insight.Action != "" {
			pdf.MultiCell(0, 5, fmt.Sprintf("  Suggested action: %s", *insight.Action), "", "L", false)
		}
		pdf.Ln(2)
	}
	pdf.Ln(5)
}

// addFitnessAssessment adds the fitness level section
func (g *PDFGenerator) addFitnessAssessment(pdf *gofpdf.Fpdf, fitness model.FitnessAssessment) {
	g.addSectionHeader(pdf, "Fitness Assessment")

	pdf.CellFormat(0, 6, fmt.Sprintf("Overall Level: %s", fitness.OverallLevel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Cardio Level: %s", fitness.CardioLevel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Strength Level: %s", fitness.StrengthLevel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Consistency: %.0f / 100", fitness.ConsistencyScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Progress Trend: %s", fitness.ProgressTrend), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addNarrative adds the coach summary section when a narrative was generated
func (g *PDFGenerator) addNarrative(pdf *gofpdf.Fpdf, narrative *string) {
	if narrative == nil || *narrative == "" {
		return
	}

	g.addSectionHeader(pdf, "Coach Summary")
	pdf.MultiCell(0, 5, *narrative, "", "L", false)
	pdf.Ln(5)
}
