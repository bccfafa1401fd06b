package admin

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLogoutUsesSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Post("/logout", Logout)

	resp, err := app.Test(httptest.NewRequest("POST", "/logout", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if _, ok := body["message"]; !ok {
		t.Error("missing message field")
	}
}

func TestVerifyTokenUsesSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/verify", func(c *fiber.Ctx) error {
		c.Locals("userId", uint(7))
		c.Locals("username", "ops")
		c.Locals("isAdmin", true)
		return VerifyToken(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/verify", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["valid"] != true {
		t.Errorf("valid = %v, want true", body["valid"])
	}
	if body["username"] != "ops" {
		t.Errorf("username = %v, want ops", body["username"])
	}
}
