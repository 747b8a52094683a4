package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfluence/backend/internal/apperr"
)

func bindApp(dst func() any) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status, resp := NewErrorResponse(err, "req-1")
			return c.Status(status).JSON(resp)
		},
	})
	app.Post("/", func(c *fiber.Ctx) error {
		v := dst()
		if err := Bind(c, v); err != nil {
			return err
		}
		return c.JSON(SuccessResponse{Success: true, Data: v})
	})
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	var out ErrorResponse
	_ = json.Unmarshal(data, &out)
	return resp.StatusCode, out
}

func TestBind(t *testing.T) {
	app := bindApp(func() any { return &CampaignRequest{} })

	tests := []struct {
		name   string
		body   string
		status int
		fields []string
	}{
		{"valid", `{"title":"Summer","budget":"1500.00","target_platforms":["instagram"]}`, 200, nil},
		{"empty body", ``, 200, nil},
		{"unknown field", `{"title":"x","budget_ton":"5"}`, 400, []string{"budget_ton"}},
		{"malformed", `{"title":`, 400, nil},
		{"wrong type", `{"duration_days":"ten"}`, 400, []string{"duration_days"}},
		{"bad platform", `{"target_platforms":["myspace"]}`, 400, []string{"target_platforms[0]"}},
		{"non numeric budget", `{"budget":"lots"}`, 400, []string{"budget"}},
		{"trailing data", `{} {}`, 400, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := post(t, app, tt.body)
			assert.Equal(t, tt.status, status)
			if tt.status != 200 {
				assert.False(t, resp.Success)
				assert.Equal(t, "req-1", resp.RequestID)
				assert.Equal(t, tt.fields, resp.Fields)
			}
		})
	}
}

func TestBind_RequiredFields(t *testing.T) {
	app := bindApp(func() any { return &ReviewRequest{} })

	status, resp := post(t, app, `{"comment":"nice"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"rating"}, resp.Fields)

	status, _ = post(t, app, `{"rating":4}`)
	assert.Equal(t, 200, status)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.KindUnauthenticated, "no session"), 401},
		{apperr.Permission("not yours"), 403},
		{apperr.Forbidden("not approved"), 403},
		{apperr.NotFound("campaign"), 404},
		{apperr.Validation("bad", "title"), 400},
		{apperr.InvalidState("not a draft"), 400},
		{apperr.Conflict("already applied"), 409},
		{apperr.Storage(errors.New("disk full"), "failed to store file"), 500},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("store")), 404},
		{errors.New("boom"), 500},
		{fiber.ErrTooManyRequests, 429},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestNewErrorResponse_HidesInternals(t *testing.T) {
	status, resp := NewErrorResponse(errors.New("pq: connection refused"), "r")
	assert.Equal(t, 500, status)
	assert.Equal(t, "internal error", resp.Error)

	status, resp = NewErrorResponse(apperr.Storage(errors.New("s3 timeout"), "failed to store file"), "r")
	assert.Equal(t, 500, status)
	assert.Equal(t, "failed to store file", resp.Error)

	_, resp = NewErrorResponse(apperr.Validation("invalid campaign fields", "title", "budget"), "r")
	assert.Equal(t, "invalid campaign fields", resp.Error)
	assert.Equal(t, []string{"title", "budget"}, resp.Fields)
}
