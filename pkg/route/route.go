package route

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/routeline/routeline/internal/domain"
	"github.com/routeline/routeline/internal/pipeline"
	"github.com/routeline/routeline/internal/reflector"
	"github.com/routeline/routeline/internal/reqctx"
	"github.com/routeline/routeline/internal/respond"
	"github.com/routeline/routeline/internal/schema"
	"github.com/routeline/routeline/internal/server"
)

// Re-exported building blocks so consumers only import this package.
type (
	// Step is one unit of the handler chain.
	Step = pipeline.Step

	// StepFunc adapts a plain function to a named Step.
	StepFunc = pipeline.StepFunc

	// Context is the normalized request context passed to every step.
	Context = reqctx.Context

	// Mapping declaratively binds output fields to path expressions,
	// nested mappings, or derivation funcs.
	Mapping = reflector.Mapping

	// Func derives a mapped value from the context directly.
	Func = reflector.Func

	// Kind discriminates error categories for status classification.
	Kind = domain.Kind

	// Engine is the schema validation engine shared across routes.
	Engine = schema.Engine
)

// Built-in error kinds and their default status codes.
const (
	KindSchemaValidation = domain.KindSchemaValidation // 400
	KindTimeout          = domain.KindTimeout          // 408
	KindPayloadTooLarge  = domain.KindPayloadTooLarge  // 413
)

// NewEngine creates the schema engine passed to NewBuilder. Construct one
// at process start; there is no hidden global validator state.
var NewEngine = schema.NewEngine

// NewError creates a tagged error a step can return to select a status
// code through Config.ErrorStatus.
func NewError(kind Kind, message string) error {
	return domain.New(kind, message)
}

// Config is the per-route configuration. It is read once by Handler and
// never mutated afterwards.
type Config struct {
	// Steps is the ordered, non-empty step chain.
	Steps []Step

	// BodySchema, when set, validates the parsed body of any request
	// that carries one before the chain runs.
	BodySchema map[string]any

	// InitialQuery reflects the chain's starting value from the context.
	// Absent, the chain starts with an empty map.
	InitialQuery Mapping

	// BodyReshape, when set, reshapes the parsed body on the context
	// before the initial query is reflected.
	BodyReshape Mapping

	// Timeout is the time budget for the whole chain, zero for none.
	Timeout time.Duration

	// ErrorStatus merges over the default error-to-status table by code:
	// an entry for an existing code replaces it outright, a new code is
	// added.
	ErrorStatus map[int][]Kind
}

// Options carries per-route response policy. The zero value of each field
// selects its default.
type Options struct {
	// MaxResponseSize caps successful body sizes in bytes, default 6 MiB.
	MaxResponseSize int64

	// Headers is the static header set on every response, default a
	// fixed security header set.
	Headers map[string]string

	// AllowedOrigins is the CORS whitelist; nil allows every origin.
	AllowedOrigins []string
}

// Builder constructs route handlers around a shared schema engine and
// logger.
type Builder struct {
	engine *schema.Engine
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil logger falls back to slog.Default.
func NewBuilder(engine *schema.Engine, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{engine: engine, logger: logger}
}

// Handler builds the http.HandlerFunc for one route. Schema compilation
// and chain construction happen here, once; the returned handler shares
// nothing mutable across requests.
func (b *Builder) Handler(cfg Config, opts *Options) (http.HandlerFunc, error) {
	exec, err := pipeline.NewExecutor(cfg.Steps, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	var compiled *schema.Schema
	if cfg.BodySchema != nil {
		compiled, err = b.engine.Compile(cfg.BodySchema)
		if err != nil {
			return nil, err
		}
	}

	writer := &respond.Writer{
		MaxBodySize: respond.DefaultMaxResponseSize,
		Headers:     respond.DefaultHeaders(),
		Origins:     nil,
		StatusTable: cfg.ErrorStatus,
		Logger:      b.logger,
	}
	if opts != nil {
		if opts.MaxResponseSize > 0 {
			writer.MaxBodySize = opts.MaxResponseSize
		}
		if opts.Headers != nil {
			writer.Headers = opts.Headers
		}
		writer.Origins = opts.AllowedOrigins
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := reqctx.New(r)
		if err != nil {
			server.AddError(r.Context(), err)
			writer.Error(w, rc, err)
			return
		}

		if err := checkContentType(r); err != nil {
			server.AddError(r.Context(), err)
			writer.Error(w, rc, err)
			return
		}

		if compiled != nil && rc.HasBody() {
			if err := compiled.Validate(rc.Body); err != nil {
				server.AddError(r.Context(), err)
				writer.Error(w, rc, err)
				return
			}
		}

		initial, err := reflector.InitialQuery(cfg.BodyReshape, cfg.InitialQuery, rc)
		if err != nil {
			server.AddError(r.Context(), err)
			writer.Error(w, rc, err)
			return
		}

		result, err := exec.Run(r.Context(), initial, rc)
		if err != nil {
			server.AddError(r.Context(), err)
			writer.Error(w, rc, err)
			return
		}

		writer.Success(w, rc, result)
	}, nil
}

// checkContentType is the pre-chain fast path for body-bearing methods: a
// POST or PUT declaring a non-JSON content type is rejected before any
// validation or chain work. The untagged error classifies to 500, not 415.
func checkContentType(r *http.Request) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return nil
	}
	if reqctx.IsJSON(r.Header.Get("Content-Type")) {
		return nil
	}
	return errors.New("Content-Type must be application/json")
}
