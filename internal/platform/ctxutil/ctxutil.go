// Package ctxutil carries the request/job correlation values threaded
// through the conversion→pipeline→probe and video worker call chains.
package ctxutil

import "context"

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type jobIDKey struct{}

// WithJobID attaches a job id for log correlation across queue hops
// (conversion -> pipeline -> probe, or slice -> asr/vision -> manifest).
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey{}, jobID)
}

func JobID(ctx context.Context) string {
	if v, ok := ctx.Value(jobIDKey{}).(string); ok {
		return v
	}
	return ""
}
