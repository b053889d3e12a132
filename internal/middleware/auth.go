package middleware

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskflow/backend/repository"
)

// JWTAuth verifies the bearer token and projects the caller identity into
// the X-User-ID / X-User-Role / X-Session-ID request headers, which are
// overwritten unconditionally so clients cannot spoof them. When a session
// repository is provided the token's session is also checked for
// revocation and, when sessionTTL is positive, its expiry is slid forward
// so activity keeps a session alive.
func JWTAuth(secret string, sessions repository.SessionRepository, sessionTTL time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del("X-User-ID")
			ctx.Request.Header.Del("X-User-Role")
			ctx.Request.Header.Del("X-Session-ID")

			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			sessionID, _ := claims["session_id"].(string)
			if sessions != nil && sessionID != "" {
				if _, err := sessions.Get(ctx, sessionID); err != nil {
					logger.Warn("session revoked or expired", zap.String("session_id", sessionID))
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
				if sessionTTL > 0 {
					if err := sessions.Extend(ctx, sessionID, int(sessionTTL.Seconds())); err != nil {
						logger.Warn("failed to extend session", zap.String("session_id", sessionID), zap.Error(err))
					}
				}
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			if role, ok := claims["role"].(string); ok {
				ctx.Request.Header.Set("X-User-Role", role)
			}
			if sessionID != "" {
				ctx.Request.Header.Set("X-Session-ID", sessionID)
			}

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
