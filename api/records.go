package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/realty-assistant/lead"
	"github.com/tanpawarit/realty-assistant/records"
)

type recordsHandler struct {
	store records.Store
}

type brokerReq struct {
	Name              string `json:"name"`
	YearsOfExperience int    `json:"years_of_experience"`
	AreaOfService     string `json:"area_of_service"`
}

type clientReq struct {
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email"`
	BrokerID  string         `json:"broker_id"`
	RentOrBuy lead.RentOrBuy `json:"rent_or_buy"`
	BudgetMin float64        `json:"budget_min"`
	BudgetMax float64        `json:"budget_max"`
	Bedrooms  int            `json:"bedrooms"`
	Bathrooms int            `json:"bathrooms"`
	Location  string         `json:"location"`
	Amenities []string       `json:"amenities"`
}

// CreateBroker handles POST /api/brokers.
func (h *recordsHandler) CreateBroker(c *gin.Context) {
	var req brokerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	b := &records.Broker{
		Name:              req.Name,
		YearsOfExperience: req.YearsOfExperience,
		AreaOfService:     strings.TrimSpace(req.AreaOfService),
	}
	if err := h.store.CreateBroker(c.Request.Context(), b); err != nil {
		writeRecordError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

// GetBrokers handles GET /api/brokers and GET /api/brokers?id=.
func (h *recordsHandler) GetBrokers(c *gin.Context) {
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		b, err := h.store.GetBroker(c.Request.Context(), id)
		if err != nil {
			writeRecordError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, b)
		return
	}

	list, err := h.store.ListBrokers(c.Request.Context())
	if err != nil {
		writeRecordError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, list)
}

// CreateClient handles POST /api/clients.
func (h *recordsHandler) CreateClient(c *gin.Context) {
	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	client := &records.Client{
		Name:      req.Name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		BrokerID:  strings.TrimSpace(req.BrokerID),
		RentOrBuy: req.RentOrBuy,
		BudgetMin: req.BudgetMin,
		BudgetMax: req.BudgetMax,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Location:  strings.TrimSpace(req.Location),
		Amenities: req.Amenities,
	}
	if err := h.store.CreateClient(c.Request.Context(), client); err != nil {
		writeRecordError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, client)
}

// GetClients handles GET /api/clients. With ?id= it answers the single
// client or null.
func (h *recordsHandler) GetClients(c *gin.Context) {
	filter := records.ClientFilter{
		ID:       c.Query("id"),
		BrokerID: c.Query("broker_id"),
		Phone:    c.Query("phone"),
	}

	list, err := h.store.ListClients(c.Request.Context(), filter)
	if err != nil {
		writeRecordError(c, err)
		return
	}

	if strings.TrimSpace(filter.ID) != "" {
		if len(list) == 0 {
			writeJSON(c, http.StatusOK, nil)
			return
		}
		writeJSON(c, http.StatusOK, list[0])
		return
	}
	writeJSON(c, http.StatusOK, list)
}

func writeRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, records.ErrInvalidRecord):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, records.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("record store failed")
		writeError(c, http.StatusInternalServerError, "Internal server error")
	}
}
