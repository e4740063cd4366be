package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pocketclass/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InstructorIDKey is the gin context key holding the authenticated instructor.
const InstructorIDKey = "instructorID"

// TokenVerifier turns a bearer token into the instructor ID it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// FirebaseVerifier accepts Firebase ID tokens; the instructor ID is the Firebase UID.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	verified, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	if verified.UID == "" {
		return "", errors.New("token has no uid")
	}
	return verified.UID, nil
}

// JWTVerifier accepts HS256 tokens whose subject is the instructor ID.
type JWTVerifier struct {
	Secret []byte
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	return utils.ExtractIDFromToken(v.Secret, token)
}

// InstructorAuthMiddleware authenticates the bearer token and stores the instructor ID
// under InstructorIDKey. Verified tokens are remembered in authCache, keyed by their
// hash, with a sliding TTL; authCache may be nil.
func InstructorAuthMiddleware(verifier TokenVerifier, authCache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
		if authCache != nil {
			instructorID, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && instructorID != "" {
				// Refresh TTL (sliding expiration) and proceed.
				if err := authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err(); err != nil {
					logger.Error("Failed to refresh auth cache TTL", zap.Error(err))
				}
				c.Set(InstructorIDKey, instructorID)
				c.Next()
				return
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				logger.Error("Error checking auth cache", zap.Error(err))
			}
		}

		instructorID, err := verifier.Verify(ctx, tokenString)
		if err != nil || instructorID == "" {
			logger.Debug("Token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if authCache != nil {
			if err := authCache.Set(ctx, cacheKey, instructorID, utils.AuthCacheTTL).Err(); err != nil {
				logger.Error("Failed to set auth cache", zap.Error(err))
			}
		}

		c.Set(InstructorIDKey, instructorID)
		c.Next()
	}
}
