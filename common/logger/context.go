package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, so search context (search_id, search_term, etc.)
// is included in every log statement made while serving that search.
type LogFields struct {
	SearchID   *int64  // Snowflake ID of the search invocation
	SearchTerm *string // Term as entered by the caller
	Scope      *string // Platform scope ("all", "tracker", "messaging")
	ThreadID   *string // Messaging thread root ID
	Component  string  // Component name (OTel semantic convention style, e.g., "worksearch.retriever.messaging")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.SearchID != nil {
		result.SearchID = new.SearchID
	}
	if new.SearchTerm != nil {
		result.SearchTerm = new.SearchTerm
	}
	if new.Scope != nil {
		result.Scope = new.Scope
	}
	if new.ThreadID != nil {
		result.ThreadID = new.ThreadID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ThreadID: logger.Ptr(rootID)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
// Useful for logging potentially long strings like chat queries or message bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
