package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"starbook/pkg/helpers"
	"starbook/pkg/response"
)

// CtxUserIDKey is where Auth and Identity park the authenticated user's
// id (int64) in the Gin context.
const CtxUserIDKey = "userID"

func bearerUserID(c *gin.Context, jwt *helpers.JWTManager) (int64, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return 0, false
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Auth requires a valid bearer token and injects the user id into the
// context. Requests without one are answered 401 and aborted.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bearerUserID(c, jwt)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "missing or invalid access token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, id)
		c.Next()
	}
}

// Identity injects the user id when a valid bearer token is present but
// never rejects the request. Handlers that answer anonymous callers
// with a plain negative result sit behind this instead of Auth.
func Identity(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := bearerUserID(c, jwt); ok {
			c.Set(CtxUserIDKey, id)
		}
		c.Next()
	}
}

// UserID reads the authenticated user's id set by Auth or Identity.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
