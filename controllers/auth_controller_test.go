package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"egehub/config"
	"egehub/utils"

	"github.com/gin-gonic/gin"
)

func TestSignUpRequiresInitializedConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitAuthController(nil)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	body := `{"email": "user@example.com", "password": "password123"}`
	ctx.Request = httptest.NewRequest("POST", "/signup", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")

	SignUp(ctx)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 before initialization, got %d", w.Code)
	}
}

func TestLoadConfigReturnsInjectedConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Cognito.Region = "eu-central-1"
	InitAuthController(cfg)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	got := loadConfig(ctx)
	if got != cfg {
		t.Error("expected the startup config back, not a reload")
	}
}

func TestGuestTokenIssuesUsableSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret", 60)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("POST", "/guestToken", strings.NewReader(`{}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	GuestToken(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "accessToken") {
		t.Error("expected an access token in the response")
	}
	if !strings.Contains(w.Body.String(), "guest:") {
		t.Error("expected a guest account id in the response")
	}
}
