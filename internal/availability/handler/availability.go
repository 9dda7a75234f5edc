package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"unimeet/internal/availability/service"
	httputil "unimeet/pkg/http"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(svc service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: svc,
		log:     log,
	}
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rule model.AvailabilityRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	created, err := h.service.Create(r.Context(), &rule)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *AvailabilityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rule, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, rule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var rule model.AvailabilityRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.writeBadBody(w, "Update")
		return
	}

	updated, err := h.service.Update(r.Context(), ps.ByName("id"), &rule)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) ListByRepresentative(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rules, err := h.service.ListByRepresentative(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListByRepresentative", err)
		return
	}

	if err := httputil.WriteSuccess(w, rules); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRepresentative", "error", err)
	}
}

func (h *AvailabilityHandler) ListByInstitution(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rules, err := h.service.ListByInstitution(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListByInstitution", err)
		return
	}

	if err := httputil.WriteSuccess(w, rules); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByInstitution", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AvailabilityHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability", h.Create)
	router.GET("/api/v1/availability/id/:id", h.GetByID)
	router.PATCH("/api/v1/availability/id/:id", h.Update)
	router.DELETE("/api/v1/availability/id/:id", h.Delete)
	router.GET("/api/v1/availability/representative/:id", h.ListByRepresentative)
	router.GET("/api/v1/availability/institution/:id", h.ListByInstitution)
}
