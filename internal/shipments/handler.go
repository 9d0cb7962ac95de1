package shipments

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/odyssey-erp/shiptrack/internal/platform/httpx"
	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/workflow"
)

// Handler serves the shipment REST endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a shipments handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.RespondError(w, r, h.logger, err)
}

func actor(r *http.Request) shared.Identity {
	id, _ := shared.IdentityFromContext(r.Context())
	return id
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Status: workflow.Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		Search: q.Get("search"),
		Page:   shared.PageFromQuery(q),
	}
	list, page, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := listResponse{Data: make([]shipmentResponse, 0, len(list)), Pagination: page}
	for _, s := range list {
		out.Data = append(out.Data, toShipmentResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.service.Create(r.Context(), actor(r), CreateInput{Name: req.ShipmentName, Number: req.ShipmentNumber})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toShipmentResponse(created))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shipment, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toShipmentResponse(shipment))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.service.Update(r.Context(), actor(r), id, UpdateInput{
		Name:             req.ShipmentName,
		Number:           req.ShipmentNumber,
		BackendMasterKey: req.BackendMasterKey,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toShipmentResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), actor(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.Advance(r.Context(), actor(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondTransition(w, result)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.service.SetStatus(r.Context(), actor(r), id, req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondTransition(w, result)
}

func (h *Handler) respondTransition(w http.ResponseWriter, t Transition) {
	httpx.JSON(w, http.StatusOK, transitionResponse{
		Shipment:      toShipmentResponse(t.Shipment),
		From:          string(t.From),
		To:            string(t.To),
		CustomsSeeded: t.CustomsSeeded,
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.service.Items(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemsResponse(view))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.service.AddItem(r.Context(), actor(r), id, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(created))
}

func (h *Handler) replaceItems(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req replaceItemsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	inputs := make([]ItemInput, len(req.Items))
	for i, it := range req.Items {
		inputs[i] = it.input()
	}
	view, err := h.service.ReplaceItems(r.Context(), actor(r), id, inputs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemsResponse(view))
}

func (h *Handler) showImporting(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	details, err := h.service.Importing(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toImportingResponse(details))
}

func (h *Handler) saveImporting(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req importingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.service.SaveImporting(r.Context(), actor(r), id, ImportingInput{
		CommissionPercent: req.CommissionPercent,
		ShipmentCost:      req.ShipmentCost,
		ShipmentSpaceM2:   req.ShipmentSpaceM2,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toImportingResponse(saved))
}

func (h *Handler) showCustoms(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.service.Customs(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCustomsResponse(view))
}

func (h *Handler) saveCustoms(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req customsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.service.SaveCustoms(r.Context(), actor(r), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCustomsResponse(view))
}

func (h *Handler) addPerType(w http.ResponseWriter, r *http.Request) {
	customsID, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req perTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.service.AddPerType(r.Context(), actor(r), customsID, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPerTypeResponse(created))
}

func (h *Handler) updatePerType(w http.ResponseWriter, r *http.Request) {
	customsID, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rowID, err := httpx.IDParam(r, "rowId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req perTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.service.UpdatePerType(r.Context(), actor(r), customsID, rowID, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPerTypeResponse(updated))
}

func (h *Handler) deletePerType(w http.ResponseWriter, r *http.Request) {
	customsID, err := httpx.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rowID, err := httpx.IDParam(r, "rowId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.service.DeletePerType(r.Context(), actor(r), customsID, rowID); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}
