package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanpawarit/realty-assistant/pkg/perf"
)

type perfHandler struct {
	monitor *perf.Monitor
}

func (h *perfHandler) Get(c *gin.Context) {
	if h.monitor == nil {
		writeJSON(c, http.StatusOK, perf.Metrics{})
		return
	}
	writeJSON(c, http.StatusOK, h.monitor.Metrics())
}

func (h *perfHandler) Reset(c *gin.Context) {
	if h.monitor != nil {
		h.monitor.LogMetrics()
		h.monitor.Reset()
	}
	c.Status(http.StatusNoContent)
}
