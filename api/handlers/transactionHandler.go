package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wajahatariq/twhspecfastapi/internal/data"
	"github.com/wajahatariq/twhspecfastapi/utils"
)

// storeError maps the store's error taxonomy to client-facing rejections;
// anything else is a transport failure and surfaces as a 500.
func (h *Handlers) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, data.ErrInvalidCategory),
		errors.Is(err, data.ErrRecordNotFound),
		errors.Is(err, data.ErrSchema),
		errors.Is(err, data.ErrReload):
		h.Utils.CustomErrorResponse(c, utils.Cake{"detail": err.Error()}, http.StatusBadRequest, err)
	default:
		h.Utils.InternalServerError(c, err)
	}
	return err
}

func wrapRecords(rows []data.Record) []Cake {
	records := make([]Cake, 0, len(rows))
	for _, row := range rows {
		records = append(records, Cake{"data": row})
	}
	return records
}

func (h *Handlers) ListPendingHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.QueryParam("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}

	rows, err := h.Data.Txns.GetPending(cat)
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, wrapRecords(rows))
}

func (h *Handlers) ListRecentHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.QueryParam("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}

	qs := c.Request().URL.Query()
	minutes := h.Utils.ReadIntQuery(qs, "minutes", 20)
	if minutes < 1 || minutes > 1440 {
		err := fmt.Errorf("minutes must be between 1 and 1440")
		h.Utils.CustomErrorResponse(c, utils.Cake{"minutes": err.Error()}, http.StatusUnprocessableEntity, err)
		return err
	}
	agentName := h.Utils.ReadStringQuery(qs, "agent_name", "")

	rows, err := h.Data.Txns.GetRecent(cat, minutes, agentName)
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, wrapRecords(rows))
}

func (h *Handlers) ListAllHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.QueryParam("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}

	rows, err := h.Data.Txns.GetAll(cat)
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, wrapRecords(rows))
}

type agentTransactionCreate struct {
	Sheet          string `json:"sheet" validate:"required,oneof=spectrum insurance"`
	AgentName      string `json:"agent_name" validate:"required"`
	Name           string `json:"name" validate:"required"`
	PhNumber       string `json:"ph_number" validate:"required"`
	Address        string `json:"address" validate:"required"`
	Email          string `json:"email" validate:"required"`
	CardHolderName string `json:"card_holder_name" validate:"required"`
	CardNumber     string `json:"card_number" validate:"required"`
	ExpiryDate     string `json:"expiry_date" validate:"required"`
	CVC            int    `json:"cvc"`
	Charge         string `json:"charge" validate:"required"`
	LLC            string `json:"llc" validate:"required"`
	Provider       string `json:"provider"`
}

func (h *Handlers) AgentSubmitHandler(c echo.Context) error {
	var input agentTransactionCreate
	if err := h.Utils.ReadJSON(c, &input); err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}
	if err := h.Validate.Struct(input); err != nil {
		h.Utils.ValidationError(c, err)
		return err
	}

	record, err := h.Data.Txns.Create(data.Category(input.Sheet), data.TxnInput{
		AgentName:      input.AgentName,
		Name:           input.Name,
		PhNumber:       input.PhNumber,
		Address:        input.Address,
		Email:          input.Email,
		CardHolderName: input.CardHolderName,
		CardNumber:     input.CardNumber,
		ExpiryDate:     input.ExpiryDate,
		CVC:            input.CVC,
		Charge:         input.Charge,
		LLC:            input.LLC,
		Provider:       input.Provider,
	})
	if err != nil {
		return h.storeError(c, err)
	}

	h.Hub.Broadcast(Cake{
		"type":   "new_pending",
		"sheet":  input.Sheet,
		"record": record,
	})

	return c.JSON(http.StatusOK, Cake{"data": record})
}

func (h *Handlers) GetTransactionHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.Param("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}
	recordID, err := h.Utils.ReadStringParam(c, "record_id")
	if err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}

	record, err := h.Data.Txns.GetByID(cat, recordID)
	if err != nil {
		return h.storeError(c, err)
	}
	if record == nil {
		h.Utils.NotFoundResponse(c)
		return echo.ErrNotFound
	}

	return c.JSON(http.StatusOK, Cake{"data": record})
}

type statusUpdateRequest struct {
	NewStatus string `json:"new_status" validate:"required,oneof=Pending Charged Declined 'Charge Back'"`
}

func (h *Handlers) UpdateStatusHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.Param("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}
	recordID, err := h.Utils.ReadStringParam(c, "record_id")
	if err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}

	var input statusUpdateRequest
	if err := h.Utils.ReadJSON(c, &input); err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}
	if err := h.Validate.Struct(input); err != nil {
		h.Utils.ValidationError(c, err)
		return err
	}

	if err := h.Data.Txns.UpdateStatus(cat, recordID, input.NewStatus); err != nil {
		return h.storeError(c, err)
	}

	h.Hub.Broadcast(Cake{
		"type":       "status_update",
		"sheet":      string(cat),
		"record_id":  recordID,
		"new_status": input.NewStatus,
	})

	return c.JSON(http.StatusOK, Cake{"detail": "Status updated"})
}

type agentTransactionUpdate struct {
	Name     *string `json:"name"`
	PhNumber *string `json:"ph_number"`
	Address  *string `json:"address"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Charge   *string `json:"charge"`
	LLC      *string `json:"llc"`
	Provider *string `json:"provider"`
}

func (u agentTransactionUpdate) updates() map[string]interface{} {
	m := map[string]interface{}{}
	set := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	set("name", u.Name)
	set("ph_number", u.PhNumber)
	set("address", u.Address)
	set("email", u.Email)
	set("charge", u.Charge)
	set("llc", u.LLC)
	set("provider", u.Provider)
	return m
}

func (h *Handlers) AgentUpdateHandler(c echo.Context) error {
	cat, err := data.ParseCategory(c.Param("sheet"))
	if err != nil {
		return h.storeError(c, err)
	}
	recordID, err := h.Utils.ReadStringParam(c, "record_id")
	if err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}

	var input agentTransactionUpdate
	if err := h.Utils.ReadJSON(c, &input); err != nil {
		h.Utils.BadRequest(c, err)
		return err
	}
	if err := h.Validate.Struct(input); err != nil {
		h.Utils.ValidationError(c, err)
		return err
	}

	updates := input.updates()
	if len(updates) == 0 {
		err := fmt.Errorf("no fields provided for update")
		h.Utils.CustomErrorResponse(c, utils.Cake{"detail": err.Error()}, http.StatusBadRequest, err)
		return err
	}

	record, err := h.Data.Txns.UpdateFields(cat, recordID, updates)
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, Cake{"data": record})
}

func (h *Handlers) NightTotalHandler(c echo.Context) error {
	// Any value other than the two categories (including none) sums both
	// sheets, which is how the dashboard asks for the combined figure.
	total, err := h.Data.Txns.NightChargedTotal(data.Category(c.QueryParam("sheet")))
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, Cake{"total": total})
}
