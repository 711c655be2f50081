package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"starbook/internal/application"
	"starbook/internal/domain/entity"
	"starbook/internal/interface/middleware"
	"starbook/internal/wire"
	"starbook/pkg/response"
	"starbook/pkg/validation"
)

// AccountHandler serves shared account CRUD and membership endpoints.
type AccountHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req wire.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	a, err := h.Svc.CreateAccount(c.Request.Context(), uid, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.ToAccountPayload(a), "account created", nil)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	var req wire.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.DeleteAccount(c.Request.Context(), uid, req.ID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "account deleted", nil)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	var req wire.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	a, err := h.Svc.GetAccount(c.Request.Context(), uid, req.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.ToAccountPayload(a), "account", nil)
}

func (h *AccountHandler) GetAccounts(c *gin.Context) {
	var req wire.AccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	accounts, err := h.Svc.GetAccounts(c.Request.Context(), uid, entity.Role(req.Role), req.PageSize, req.PageID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]wire.AccountPayload, 0, len(accounts))
	for i := range accounts {
		out = append(out, wire.ToAccountPayload(&accounts[i]))
	}
	response.Success(c, http.StatusOK, out, "accounts", nil)
}

func (h *AccountHandler) CountAccounts(c *gin.Context) {
	var req wire.AccountsCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	n, err := h.Svc.CountAccounts(c.Request.Context(), uid, entity.Role(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.CountPayload{Count: n}, "count", nil)
}

func (h *AccountHandler) UpdateAccountName(c *gin.Context) {
	var req wire.UpdateAccountNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.UpdateAccountName(c.Request.Context(), uid, req.ID, req.Name); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "account renamed", nil)
}

func (h *AccountHandler) AddAccountManager(c *gin.Context) {
	var req wire.AccountManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.AddAccountManager(c.Request.Context(), uid, req.AccountID, req.UserID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "manager added", nil)
}

func (h *AccountHandler) DeleteAccountManager(c *gin.Context) {
	var req wire.AccountManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.RemoveAccountManager(c.Request.Context(), uid, req.AccountID, req.UserID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "manager removed", nil)
}
