package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"starbook/internal/application"
	"starbook/internal/domain/entity"
	"starbook/internal/interface/middleware"
	"starbook/internal/wire"
	"starbook/pkg/helpers"
	"starbook/pkg/response"
	"starbook/pkg/validation"
)

// UserHandler serves identity, profile and user lookup endpoints.
// RDB is optional; when present, logins are mirrored into redis for
// operational visibility.
type UserHandler struct {
	Svc        *application.Service
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	RDB        *redis.Client
	SessionTTL time.Duration
}

func NewUserHandler(svc *application.Service, jwt *helpers.JWTManager, logger *logrus.Logger, rdb *redis.Client, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{Svc: svc, JWT: jwt, Logger: logger, RDB: rdb, SessionTTL: sessionTTL}
}

func (h *UserHandler) Login(c *gin.Context) {
	var req wire.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	uid := strconv.FormatInt(u.ID, 10)
	token, exp, err := h.JWT.GenerateAccessToken(uid)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.RDB != nil {
		sess := map[string]any{"user_id": u.ID, "name": u.Name, "email": u.Email, "login_at": time.Now().Unix()}
		if err := helpers.RedisSetJSON(c.Request.Context(), h.RDB, "session:"+uid, sess, h.SessionTTL); err != nil {
			h.Logger.WithError(err).Warn("session mirror write failed")
		}
	}
	response.Success(c, http.StatusOK, wire.LoginResponse{AccessToken: token}, "login successful", map[string]any{"expires_at": exp.Unix()})
}

// GetUserByToken answers 401, never 404, for a token naming a vanished
// user: the client treats it as a stale credential and discards it.
func (h *UserHandler) GetUserByToken(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	u, err := h.Svc.ResolveUser(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	response.Success(c, http.StatusOK, wire.ToUserPayload(u), "current user", nil)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req wire.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "user created", nil)
}

func (h *UserHandler) UpdateUserName(c *gin.Context) {
	var req wire.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.UpdateUserName(c.Request.Context(), uid, req.Name); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "name updated", nil)
}

func (h *UserHandler) UpdateUserEmail(c *gin.Context) {
	var req wire.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.UpdateUserEmail(c.Request.Context(), uid, req.Email); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "email updated", nil)
}

func (h *UserHandler) UpdateUserPassword(c *gin.Context) {
	var req wire.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.UpdateUserPassword(c.Request.Context(), uid, req.Password); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "password updated", nil)
}

func (h *UserHandler) CheckUserPassword(c *gin.Context) {
	var req wire.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	ok, err := h.Svc.CheckUserPassword(c.Request.Context(), uid, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: ok}, "password checked", nil)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	var req wire.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	u, err := h.Svc.GetUser(c.Request.Context(), uid, req.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.ToUserPayload(u), "user", nil)
}

func (h *UserHandler) GetUserAvatar(c *gin.Context) {
	var req wire.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	url, err := h.Svc.GetUserAvatar(c.Request.Context(), uid, req.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.AvatarPayload{URL: url}, "avatar", nil)
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	var req wire.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	u, err := h.Svc.GetUserByEmail(c.Request.Context(), uid, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.ToUserPayload(u), "user", nil)
}

func (h *UserHandler) GetUsersByName(c *gin.Context) {
	var req wire.UsersByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	users, err := h.Svc.GetUsersByName(c.Request.Context(), uid, req.Name, req.PageSize, req.PageID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayloads(users), "users", nil)
}

func (h *UserHandler) GetUsersByAccountRole(c *gin.Context) {
	var req wire.UsersByAccountRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	users, err := h.Svc.GetUsersByAccountRole(c.Request.Context(), uid, req.AccountID, entity.Role(req.Role), req.PageSize, req.PageID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayloads(users), "users", nil)
}

func (h *UserHandler) CountUsersByAccountRole(c *gin.Context) {
	var req wire.UsersCountByAccountRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	n, err := h.Svc.CountUsersByAccountRole(c.Request.Context(), uid, req.AccountID, entity.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.CountPayload{Count: n}, "count", nil)
}

// CheckUserRole is a public predicate over the rule set.
func (h *UserHandler) CheckUserRole(c *gin.Context) {
	var req wire.CheckUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ok, err := h.Svc.HasRole(c.Request.Context(), req.UserID, req.AccountID, entity.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: ok}, "role checked", nil)
}

// CheckCurrentUserRole sits behind Identity, not Auth: an anonymous
// caller gets ok=false rather than 401.
func (h *UserHandler) CheckCurrentUserRole(c *gin.Context) {
	var req wire.CheckCurrentUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, authed := middleware.UserID(c)
	if !authed {
		response.Success(c, http.StatusOK, wire.OKPayload{OK: false}, "role checked", nil)
		return
	}
	ok, err := h.Svc.HasRole(c.Request.Context(), uid, req.AccountID, entity.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: ok}, "role checked", nil)
}

// SearchUsers queries the Elasticsearch index. Without ES configured it
// answers an empty list.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req wire.SearchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), req.Query, req.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

func userPayloads(users []entity.User) []wire.UserPayload {
	out := make([]wire.UserPayload, 0, len(users))
	for i := range users {
		out = append(out, wire.ToUserPayload(&users[i]))
	}
	return out
}
