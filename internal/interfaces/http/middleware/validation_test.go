package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationErrorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

type consumeBody struct {
	MaterialName   string          `json:"material_name" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"decimal_gt0,decimal_scale"`
	ProductionDate string          `json:"production_date" binding:"required,isodate"`
}

type checkBody struct {
	Materials map[string]decimal.Decimal `json:"materials" binding:"required,dive,decimal_gte0,decimal_scale"`
}

func newValidationRouter[T any]() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-val")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) validationErrorBody {
	t.Helper()
	var resp validationErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestValidation_DecimalAndDateTags(t *testing.T) {
	router := newValidationRouter[consumeBody]()

	t.Run("valid body passes", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":"12.5","production_date":"2024-03-01"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("numeric quantity passes", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":3,"production_date":"2024-03-01T08:00:00Z"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("zero quantity and bad date are reported by json name", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":"0","production_date":"01/03/2024"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeValidation(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
		assert.Equal(t, "req-val", resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be a number greater than 0", fields["quantity"])
		assert.Equal(t, "Must be a date in YYYY-MM-DD format", fields["production_date"])
	})

	t.Run("negative quantity fails", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":"-1","production_date":"2024-03-01"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("more than four decimal places fails", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":"0.12345","production_date":"2024-03-01"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeValidation(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "quantity", resp.Error.Details[0].Field)
		assert.Equal(t, "Must have at most 4 decimal places", resp.Error.Details[0].Message)
	})

	t.Run("four decimal places passes", func(t *testing.T) {
		w := postJSON(router, `{"material_name":"EVA","quantity":"0.1235","production_date":"2024-03-01"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing material is required", func(t *testing.T) {
		w := postJSON(router, `{"quantity":"1","production_date":"2024-03-01"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeValidation(t, w)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "material_name", resp.Error.Details[0].Field)
		assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
	})
}

func TestValidation_MapDive(t *testing.T) {
	router := newValidationRouter[checkBody]()

	assert.Equal(t, http.StatusOK, postJSON(router, `{"materials":{"EVA":"10","Glass":"0"}}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, `{"materials":{"EVA":"-2"}}`).Code)
	assert.Equal(t, http.StatusOK, postJSON(router, `{"materials":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, `{"materials":{"Ribbon":"0.00005"}}`).Code)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := newValidationRouter[consumeBody]()

	w := postJSON(router, `{"material_name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeValidation(t, w)
	assert.Equal(t, "ERR_INVALID_JSON", resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Name  string `validate:"required"`
		Short string `validate:"min=3"`
		Long  string `validate:"max=2"`
		Count int    `validate:"gte=5"`
		ID    string `validate:"uuid"`
	}

	v := validator.New()
	err := v.Struct(sample{Short: "a", Long: "abc", Count: 1, ID: "nope"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	got := map[string]string{}
	for _, e := range verrs {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", got["Name"])
	assert.Equal(t, "Must be at least 3 characters", got["Short"])
	assert.Equal(t, "Must be at most 2 characters", got["Long"])
	assert.Equal(t, "Must be greater than or equal to 5", got["Count"])
	assert.Equal(t, "Invalid UUID format", got["ID"])
}
