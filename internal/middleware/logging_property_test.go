package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// All incoming requests must be logged with method, path, user ID, and timestamp
func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with required fields", prop.ForAll(
		func(method string, path string, userID string) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			// Create test router
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))

			// Add test route
			router.Handle(method, path, func(c *gin.Context) {
				if userID != "" {
					c.Set("user_id", userID)
				}
				c.Status(http.StatusOK)
			})

			// Create test request
			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()

			// Execute request
			router.ServeHTTP(w, req)

			// Verify log entry was created
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No log entries found")
				return false
			}

			// Find the request log entry
			var requestLog *observer.LoggedEntry
			for i := range logEntries {
				if logEntries[i].Message == "Request completed" {
					requestLog = &logEntries[i]
					break
				}
			}

			if requestLog == nil {
				t.Logf("Request log entry not found")
				return false
			}

			// Verify required fields
			fields := requestLog.ContextMap()

			if fields["method"] != method {
				t.Logf("Method mismatch: expected %s, got %v", method, fields["method"])
				return false
			}

			if fields["path"] != path {
				t.Logf("Path mismatch: expected %s, got %v", path, fields["path"])
				return false
			}

			// User ID should be present (either provided or "anonymous")
			if _, ok := fields["user_id"]; !ok {
				t.Logf("user_id field missing")
				return false
			}

			// Timestamp should be present
			if _, ok := fields["timestamp"]; !ok {
				t.Logf("timestamp field missing")
				return false
			}

			// Duration should be present
			if _, ok := fields["duration"]; !ok {
				t.Logf("duration field missing")
				return false
			}

			// Status should be present
			if _, ok := fields["status"]; !ok {
				t.Logf("status field missing")
				return false
			}

			return true
		},
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
		gen.OneConstOf("/api/v1/test", "/api/v1/health", "/api/v1/workouts"),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// All errors must be logged with stack traces and request context
func TestProperty_ErrorLoggingDetail(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("errors are logged with stack traces and context", prop.ForAll(
		func(errorMessage string, path string) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.ErrorLevel)
			logger := zap.New(core)

			// Create test router
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(ErrorLoggingMiddleware(logger))

			// Add test route that generates an error
			router.GET(path, func(c *gin.Context) {
				c.Error(gin.Error{
					Err:  &testError{msg: errorMessage},
					Type: gin.ErrorTypePrivate,
				})
				c.Status(http.StatusInternalServerError)
			})

			// Create test request
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			// Execute request
			router.ServeHTTP(w, req)

			// Verify error log entry was created
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No error log entries found")
				return false
			}

			// Find the error log entry
			var errorLog *observer.LoggedEntry
			for i := range logEntries {
				if logEntries[i].Message == "Request error occurred" {
					errorLog = &logEntries[i]
					break
				}
			}

			if errorLog == nil {
				t.Logf("Error log entry not found")
				return false
			}

			// Verify required fields
			fields := errorLog.ContextMap()

			// Error should be present
			if _, ok := fields["error"]; !ok {
				t.Logf("error field missing")
				return false
			}

			// Method should be present
			if fields["method"] != "GET" {
				t.Logf("method field missing or incorrect")
				return false
			}

			// Path should be present
			if fields["path"] != path {
				t.Logf("path field missing or incorrect")
				return false
			}

			// Stack trace should be present
			if _, ok := fields["stack_trace"]; !ok {
				t.Logf("stack_trace field missing")
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.OneConstOf("/api/v1/test", "/api/v1/error", "/api/v1/fail"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Correlation IDs are attached to every response, echoed when already present
func TestProperty_CorrelationHeaders(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("request and trace IDs are set on the response", prop.ForAll(
		func(providedRequestID string, provideTrace bool) bool {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestIDMiddleware())
			router.Use(TracingMiddleware())

			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if providedRequestID != "" {
				req.Header.Set("X-Request-ID", providedRequestID)
			}

			providedTraceID := ""
			if provideTrace {
				providedTraceID = "trace-abc-123"
				req.Header.Set("X-Trace-ID", providedTraceID)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// A request ID is always present
			requestID := w.Header().Get("X-Request-ID")
			if requestID == "" {
				t.Logf("X-Request-ID header missing from response")
				return false
			}

			// A provided request ID is echoed back unchanged
			if providedRequestID != "" && requestID != providedRequestID {
				t.Logf("X-Request-ID not echoed: expected %s, got %s", providedRequestID, requestID)
				return false
			}

			// A trace ID is always present
			traceID := w.Header().Get("X-Trace-ID")
			if traceID == "" {
				t.Logf("X-Trace-ID header missing from response")
				return false
			}

			if provideTrace && traceID != providedTraceID {
				t.Logf("X-Trace-ID not echoed: expected %s, got %s", providedTraceID, traceID)
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// AI operations must be logged with processing time and token usage
func TestProperty_AIOperationLogging(t *testing.T) {
	// This property is tested in the Azure OpenAI client tests
	// Here we verify the logging structure is correct
	properties := gopter.NewProperties(nil)

	properties.Property("AI operations log processing time and token usage", prop.ForAll(
		func(promptTokens int64, completionTokens int64, processingTimeMs int64) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			// Simulate AI operation logging
			logger.Info("Azure OpenAI token usage",
				zap.Int64("prompt_tokens", promptTokens),
				zap.Int64("completion_tokens", completionTokens),
				zap.Int64("total_tokens", promptTokens+completionTokens),
				zap.Duration("request_time", time.Duration(processingTimeMs)*time.Millisecond),
			)

			// Verify log entry
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No log entries found")
				return false
			}

			entry := logEntries[0]
			fields := entry.ContextMap()

			// Verify token usage fields
			if fields["prompt_tokens"] != promptTokens {
				t.Logf("prompt_tokens mismatch")
				return false
			}

			if fields["completion_tokens"] != completionTokens {
				t.Logf("completion_tokens mismatch")
				return false
			}

			if fields["total_tokens"] != promptTokens+completionTokens {
				t.Logf("total_tokens mismatch")
				return false
			}

			// Verify processing time field
			if _, ok := fields["request_time"]; !ok {
				t.Logf("request_time field missing")
				return false
			}

			return true
		},
		gen.Int64Range(10, 1000),
		gen.Int64Range(10, 500),
		gen.Int64Range(100, 5000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Report generations must be logged with score and duration
func TestProperty_ReportGenerationLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("report generations log score, report ID, and duration", prop.ForAll(
		func(reportID string, userID string, overallScore float64, durationMs int64) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			// Simulate report generation completion logging
			generationDuration := time.Duration(durationMs) * time.Millisecond

			logger.Info("health report generated successfully",
				zap.String("report_id", reportID),
				zap.String("user_id", userID),
				zap.Float64("overall_score", overallScore),
				zap.Duration("generation_duration", generationDuration),
			)

			// Verify log entry
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No log entries found")
				return false
			}

			entry := logEntries[0]
			if entry.Message != "health report generated successfully" {
				t.Logf("Unexpected log message: %s", entry.Message)
				return false
			}

			fields := entry.ContextMap()

			// Verify required fields
			if fields["report_id"] != reportID {
				t.Logf("report_id mismatch")
				return false
			}

			if fields["user_id"] != userID {
				t.Logf("user_id mismatch")
				return false
			}

			if fields["overall_score"] != overallScore {
				t.Logf("overall_score mismatch")
				return false
			}

			if _, ok := fields["generation_duration"]; !ok {
				t.Logf("generation_duration field missing")
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Float64Range(0, 100),
		gen.Int64Range(50, 5000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Helper types

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
