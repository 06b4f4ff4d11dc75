package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/routeline/routeline/internal/config"
	"github.com/routeline/routeline/internal/server"
	"github.com/routeline/routeline/internal/telemetry"
	"github.com/routeline/routeline/pkg/route"
)

// userSchema is the demo route's body contract.
var userSchema = map[string]any{
	"type":                 "object",
	"required":             []any{"email", "name", "password"},
	"additionalProperties": false,
	"properties": map[string]any{
		"email": map[string]any{
			"type":   "string",
			"format": "email",
			"errorMessage": map[string]any{
				"format": "must be a valid email address",
			},
		},
		"name": map[string]any{
			"type":      "string",
			"minLength": 2,
		},
		"password": map[string]any{
			"type":      "string",
			"minLength": 8,
		},
	},
}

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("RL_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("routeline", logger)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer shutdown(context.Background())

	builder := route.NewBuilder(route.NewEngine(), logger)

	createUser, err := builder.Handler(route.Config{
		Steps: []route.Step{
			route.StepFunc{StepName: "normalize", Fn: normalizeEmail},
			route.StepFunc{StepName: "echo", Fn: echo},
		},
		BodySchema: userSchema,
		InitialQuery: route.Mapping{
			"email": "body.email",
			"name":  "body.name",
		},
		Timeout: cfg.Route.Timeout,
	}, &route.Options{
		MaxResponseSize: cfg.Route.MaxResponseSize,
		AllowedOrigins:  originWhitelist(cfg),
	})
	if err != nil {
		log.Fatalf("Failed to build route: %v", err)
	}

	srv := server.New(cfg.Server.Port, cfg.Server.Timeout, logger)
	srv.Router.Post("/users", createUser)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// originWhitelist keeps nil for "allow every origin" when unconfigured.
func originWhitelist(cfg *config.Config) []string {
	if len(cfg.Route.CORSOrigins) == 0 {
		return nil
	}
	return cfg.Route.CORSOrigins
}

func normalizeEmail(_ context.Context, query any, _ *route.Context) (any, error) {
	q, ok := query.(map[string]any)
	if !ok {
		return query, nil
	}
	if email, ok := q["email"].(string); ok {
		q["email"] = strings.ToLower(email)
	}
	return q, nil
}

func echo(_ context.Context, query any, _ *route.Context) (any, error) {
	return map[string]any{"user": query, "created": true}, nil
}
