package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanpawarit/realty-assistant/lead"
	"github.com/tanpawarit/realty-assistant/records"
)

type leadsHandler struct {
	store records.Store
}

type leadsResponse struct {
	Leads   []lead.Lead  `json:"leads"`
	Summary lead.Summary `json:"summary"`
}

// Score handles POST /api/leads/score.
func (h *leadsHandler) Score(c *gin.Context) {
	var prefs lead.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(c, http.StatusOK, lead.Calculate(prefs))
}

// List handles GET /api/leads?broker_id=, scoring every matching client.
func (h *leadsHandler) List(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context(), records.ClientFilter{BrokerID: c.Query("broker_id")})
	if err != nil {
		writeRecordError(c, err)
		return
	}

	leads := make([]lead.Lead, 0, len(clients))
	for _, cl := range clients {
		prefs := cl.Preferences()
		leads = append(leads, lead.Lead{
			ID:          cl.ID,
			Name:        cl.Name,
			Email:       cl.Email,
			Phone:       cl.Phone,
			Score:       lead.Calculate(prefs),
			Preferences: prefs,
			CreatedAt:   cl.CreatedAt,
		})
	}

	ranked := lead.Rank(leads)
	writeJSON(c, http.StatusOK, leadsResponse{Leads: ranked, Summary: lead.Summarize(ranked)})
}
