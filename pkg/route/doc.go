// Package route is the public API for building route handlers.
// This is the stable surface for external consumers.
//
// A handler is built once per route from a Config and optional Options and
// then mounted on any net/http router:
//
//	b := route.NewBuilder(schema.NewEngine(), logger)
//	h, err := b.Handler(route.Config{
//	    Steps: []route.Step{
//	        route.StepFunc{StepName: "load", Fn: loadUser},
//	        route.StepFunc{StepName: "save", Fn: saveUser},
//	    },
//	    BodySchema:   userSchema,
//	    InitialQuery: route.Mapping{"email": "body.email", "id": "params.id"},
//	    Timeout:      5 * time.Second,
//	}, nil)
//
// Per request the handler validates the body, reflects the initial query,
// folds it through the step chain under the configured time budget, and
// writes a JSON response with deterministic CORS and security headers.
// Every error raised anywhere in that sequence is converted to the shared
// error envelope; nothing propagates past the handler.
package route
