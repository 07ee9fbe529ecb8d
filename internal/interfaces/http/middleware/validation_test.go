package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adjustInput struct {
	Amount string `json:"amount" binding:"required,decimal"`
	FileID string `json:"file_id" binding:"required,uuid"`
	Note   string `json:"note" binding:"max=5"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var in adjustInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-validation-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NoError(t, v.Var("12.3456", "decimal"))
	assert.Error(t, v.Var("12,5", "decimal"))
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	router := validationRouter()

	rec := postJSON(router, `{"amount":"ten","file_id":"nope","note":"too long"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-validation-1", resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Must be a decimal number", messages["amount"])
	assert.Equal(t, "Invalid UUID format", messages["file_id"])
	assert.Equal(t, "Must be at most 5 characters", messages["note"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	rec := postJSON(validationRouter(), `{"amount":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidInput(t *testing.T) {
	rec := postJSON(validationRouter(), `{"amount":"10.50","file_id":"0b6f0c3e-2f55-4f4e-9d7a-55f1d2a1b8c4"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Email    string `validate:"email"`
		Min      string `validate:"min=5"`
		OneOf    string `validate:"oneof=a b"`
		GTE      int    `validate:"gte=10"`
	}

	err := validator.New().Struct(sample{Email: "x", Min: "ab", OneOf: "c", GTE: 1})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	want := map[string]string{
		"Required": "This field is required",
		"Email":    "Invalid email format",
		"Min":      "Must be at least 5 characters",
		"OneOf":    "Must be one of: a b",
		"GTE":      "Must be greater than or equal to 10",
	}
	for _, e := range verrs {
		assert.Equal(t, want[e.Field()], getValidationMessage(e), e.Field())
	}
}
