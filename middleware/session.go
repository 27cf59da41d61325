package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"
	"taskoo-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey int

const accountInfoKey contextKey = iota

func WithAccountInfo(ctx context.Context, info models.AccountInfo) context.Context {
	return context.WithValue(ctx, accountInfoKey, info)
}

// AccountInfoFromContext returns the caller placed in ctx by Session.
func AccountInfoFromContext(ctx context.Context) (models.AccountInfo, bool) {
	info, ok := ctx.Value(accountInfoKey).(models.AccountInfo)
	return info, ok
}

// Session validates the bearer token and stores the caller's AccountInfo in the request context.
func Session(tokens *utils.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: SESSION_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				utils.WriteError(w, http.StatusUnauthorized, "Authorization header missing")
				return
			}
			tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenStr == "" {
				logging.Logger.Warnf("Event ID: SESSION_BEARER_MISSING, Description: Bearer prefix missing for request to %s %s", r.Method, r.URL.Path)
				utils.WriteError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: SESSION_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			info, err := accountInfo(claims)
			if err != nil {
				logging.Logger.Warnf("Event ID: SESSION_INVALID_CLAIMS, Description: Malformed claims for request to %s %s: %v", r.Method, r.URL.Path, err)
				utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			logging.Logger.Debugf("Event ID: SESSION_OK, Description: Account %s authorized for %s %s", info.ID.Hex(), r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithAccountInfo(r.Context(), info)))
		})
	}
}

func accountInfo(claims *utils.Claims) (models.AccountInfo, error) {
	id, err := primitive.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return models.AccountInfo{}, err
	}
	bucket, err := primitive.ObjectIDFromHex(claims.Bucket)
	if err != nil {
		return models.AccountInfo{}, err
	}
	return models.AccountInfo{ID: id, Bucket: bucket, Position: claims.Position, Email: claims.Email}, nil
}
