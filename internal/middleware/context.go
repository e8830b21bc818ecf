package middleware

import "context"

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Workoutlog-Token"

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the signed-in user set by AuthCheck, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
