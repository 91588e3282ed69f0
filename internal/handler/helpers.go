package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the standard error envelope returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// userIDFromQuery extracts and validates the user_id query parameter
func userIDFromQuery(c *gin.Context) (string, error) {
	raw := c.Query("user_id")
	if raw == "" {
		return "", fmt.Errorf("user_id query parameter is required")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid user_id: %w", err)
	}

	return userID.String(), nil
}

// intQuery parses an integer query parameter, falling back to a default when
// the parameter is absent
func intQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %w", name, err)
	}

	return value, nil
}
