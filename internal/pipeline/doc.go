// Package pipeline provides the step chain execution engine.
//
// A route configures an ordered, non-empty list of steps. The executor
// threads a single query value through the chain: each step receives the
// previous step's output together with the request context, and its result
// becomes the next step's input. Steps run strictly in order with no
// fan-out; step N+1 never starts before step N has resolved.
//
// An optional timeout covers the whole chain, not individual steps. When
// the timer wins the race the chain fails with a timeout error; the losing
// step's in-flight work is not cancelled, only abandoned, and its late
// result is discarded.
package pipeline
