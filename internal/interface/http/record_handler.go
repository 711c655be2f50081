package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"starbook/internal/application"
	"starbook/internal/interface/middleware"
	"starbook/internal/wire"
	"starbook/pkg/money"
	"starbook/pkg/response"
	"starbook/pkg/validation"
)

// RecordHandler serves record CRUD and aggregate endpoints.
type RecordHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewRecordHandler(svc *application.Service, logger *logrus.Logger) *RecordHandler {
	return &RecordHandler{Svc: svc, Logger: logger}
}

func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req wire.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"amount": "must be a decimal number"})
		return
	}
	uid, _ := middleware.UserID(c)
	in := application.RecordInput{Name: req.Name, Type: req.RecordType, Date: time.Unix(req.Date, 0), Amount: amount}
	if err := h.Svc.CreateRecord(c.Request.Context(), uid, req.AccountID, in); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "record created", nil)
}

func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	var req wire.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	if err := h.Svc.DeleteRecord(c.Request.Context(), uid, req.ID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "record deleted", nil)
}

func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req wire.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"amount": "must be a decimal number"})
		return
	}
	uid, _ := middleware.UserID(c)
	in := application.RecordInput{Name: req.Name, Type: req.RecordType, Date: time.Unix(req.Date, 0), Amount: amount}
	if err := h.Svc.UpdateRecord(c.Request.Context(), uid, req.ID, in); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.OKPayload{OK: true}, "record updated", nil)
}

func (h *RecordHandler) GetRecordsByAccount(c *gin.Context) {
	var req wire.RecordsByAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	records, err := h.Svc.GetRecordsByAccount(c.Request.Context(), uid, req.AccountID, req.PageSize, req.PageID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]wire.RecordPayload, 0, len(records))
	for i := range records {
		out = append(out, wire.ToRecordPayload(&records[i]))
	}
	response.Success(c, http.StatusOK, out, "records", nil)
}

func (h *RecordHandler) CountRecordsByAccount(c *gin.Context) {
	var req wire.AccountIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	n, err := h.Svc.CountRecordsByAccount(c.Request.Context(), uid, req.AccountID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.CountPayload{Count: n}, "count", nil)
}

func (h *RecordHandler) SumAmountByAccount(c *gin.Context) {
	var req wire.AccountIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid, _ := middleware.UserID(c)
	sum, err := h.Svc.SumAmountByAccount(c.Request.Context(), uid, req.AccountID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wire.AmountPayload{Amount: money.Format(sum)}, "amount", nil)
}
