// Package httputil provides HTTP response helpers for gin handlers.
package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bandhub/server/pkg/errors"
)

// Response represents a standard API response.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Status     int         `json:"status"`
	Message    string      `json:"message"`
	IsRLSIssue bool        `json:"is_rls_issue,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// SuccessResponse sends a successful response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
	})
}

// ErrorResponse sends an error response.
func ErrorResponse(c *gin.Context, err error) {
	appErr, ok := err.(*errors.Error)
	if !ok {
		// Unknown error - treat as an unexpected exception, message
		// passed through verbatim
		appErr = errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	c.JSON(appErr.HTTPStatus, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:       appErr.Code,
			Status:     appErr.HTTPStatus,
			Message:    appErr.Message,
			IsRLSIssue: appErr.IsRLSIssue,
			Details:    appErr.Details,
		},
		RequestID: GetRequestID(c),
	})
}

// PaginationResponse represents a paginated response.
type PaginationResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
	RequestID  string         `json:"request_id"`
}

// PaginationInfo holds pagination metadata.
type PaginationInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// PaginatedResponse sends a paginated response.
// A non-positive pageSize is treated as 1 so the page math stays defined.
func PaginatedResponse(c *gin.Context, data interface{}, page, pageSize int, totalItems int64) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int(totalItems) / pageSize
	if int(totalItems)%pageSize != 0 {
		totalPages++
	}

	c.JSON(200, PaginationResponse{
		Success: true,
		Data:    data,
		Pagination: PaginationInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
		RequestID: GetRequestID(c),
	})
}

// GetRequestID retrieves or generates a request ID.
func GetRequestID(c *gin.Context) string {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return requestID
}
