// Stats HTTP handler.
//
//   - GET /stats   (feedback entries, messages sent, stored sessions)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats godoc
// @ID          getStats
// @Summary     Usage counters
// @Description Feedback entries and messages sent, counted from the event logs, plus the number of stored sessions.
// @Tags        Stats
// @Produce     json
// @Success     200  {object}  services.Stats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	st, err := h.statsSvc.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}
