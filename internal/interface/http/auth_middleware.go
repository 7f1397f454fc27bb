package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authUserKey = "auth_user_id"

// authMiddleware verifies the bearer token issued by the identity
// service and stashes the caller's user id on the context. Only
// verification happens here; issuance is out of scope.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_not_configured", "token verification is not configured", nil))
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}

		userID, err := verifyToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusForbidden, "invalid_token", err.Error(), err))
			return
		}
		c.Set(authUserKey, userID)
		c.Next()
	}
}

func verifyToken(raw, secret string) (int64, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, errors.New("token subject is not a user id")
	}
	return userID, nil
}

func authedUser(c *gin.Context) (int64, bool) {
	value, ok := c.Get(authUserKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
