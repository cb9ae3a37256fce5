package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidQuantity, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientMaterials, http.StatusUnprocessableEntity},
		{ErrCodeFeedUnavailable, http.StatusBadGateway},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_QUANTITY", ErrCodeInvalidQuantity},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"DUPLICATE_REQUEST", ErrCodeDuplicateRequest},
		{"INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"INSUFFICIENT_MATERIALS", ErrCodeInsufficientMaterials},
		{"FEED_UNAVAILABLE", ErrCodeFeedUnavailable},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryMappedCodeHasStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeInsufficientMaterials, "short", "req-1", []string{"EVA"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "ERR_INSUFFICIENT_MATERIALS", "message": "short", "request_id": "req-1", "details": ["EVA"]}
	}`, string(raw))
}

func TestNewErrorResponse_OmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "missing"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "error": {"code": "ERR_NOT_FOUND", "message": "missing"}}`, string(raw))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{{Field: "quantity", Message: "This field is required"}})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-2", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 50, 0},
		{50, 50, 1},
		{51, 50, 2},
		{10, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestListRequest_Normalize(t *testing.T) {
	r := ListRequest{}
	r.Normalize()
	assert.Equal(t, DefaultPage, r.Page)
	assert.Equal(t, DefaultPageSize, r.PageSize)

	r = ListRequest{Page: 3, PageSize: 10}
	r.Normalize()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, 10, r.PageSize)
}
