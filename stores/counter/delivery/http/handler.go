package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goguard/base/delivery"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain/counter"
)

// CounterResponse is the body of every successful counter call
type CounterResponse struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

type counterHandler struct {
	counter counter.Usecase
}

// New registers the counter routes on e
func New(e *echo.Echo, us counter.Usecase) {
	handler := &counterHandler{
		counter: us,
	}
	g := e.Group("/counter")
	g.GET("", handler.describe)
	g.GET("/:id", handler.load)
	g.POST("/:id/decrement", handler.decrement)
}

// ref maps the id in the path back to the service's reference. Unknown ids
// keep only the id and are rejected by the service.
func (h *counterHandler) ref(c echo.Context) *counter.Ref {
	id := c.Param("id")
	if own := h.counter.Ref(); own.ID() == id {
		return own
	}
	return counter.NewRef(id)
}

func (h *counterHandler) describe(c echo.Context) error {
	cont := delivery.Ctx(c)
	ref := h.counter.Ref()

	v, err := h.counter.Load(cont, ref)
	if err != nil {
		cont.WithField("err", err).Error("counter.Load failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, CounterResponse{ID: ref.ID(), Value: v})
}

func (h *counterHandler) load(c echo.Context) error {
	cont := delivery.Ctx(c)
	ref := h.ref(c)

	v, err := h.counter.Load(cont, ref)
	if err != nil {
		cont.WithFields(log.Fields{"err": err, "id": ref.ID()}).Error("counter.Load failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, CounterResponse{ID: ref.ID(), Value: v})
}

func (h *counterHandler) decrement(c echo.Context) error {
	cont := delivery.Ctx(c)
	ref := h.ref(c)

	if err := h.counter.Decrement(cont, ref); err != nil {
		cont.WithFields(log.Fields{"err": err, "id": ref.ID()}).Error("counter.Decrement failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	v, err := h.counter.Load(cont, ref)
	if err != nil {
		cont.WithFields(log.Fields{"err": err, "id": ref.ID()}).Error("counter.Load failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, CounterResponse{ID: ref.ID(), Value: v})
}
