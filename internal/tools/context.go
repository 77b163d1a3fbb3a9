package tools

import "context"

type contextKey string

const userIDKey contextKey = "user_id"
const recentTextsKey contextKey = "recent_texts"

// GlobalUserID is the seen-item bucket used when a turn carries no
// user identity.
const GlobalUserID = "__global__"

// WithUserID adds the user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user ID from the context.
// Returns GlobalUserID if not set.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return GlobalUserID
}

// WithRecentTexts adds the turn's recent utterance texts to the
// context. Nil slices are ignored.
func WithRecentTexts(ctx context.Context, texts []string) context.Context {
	if texts == nil {
		return ctx
	}
	return context.WithValue(ctx, recentTextsKey, texts)
}

// RecentTextsFromContext extracts recent utterance texts from the
// context. Returns nil if none were set.
func RecentTextsFromContext(ctx context.Context) []string {
	if texts, ok := ctx.Value(recentTextsKey).([]string); ok {
		return texts
	}
	return nil
}
