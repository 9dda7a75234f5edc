package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"unimeet/internal/meetings/service"
	apperrors "unimeet/pkg/errors"
	httputil "unimeet/pkg/http"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

type MeetingHandler struct {
	service service.MeetingService
	log     *logger.Logger
}

func NewMeetingHandler(svc service.MeetingService, log *logger.Logger) *MeetingHandler {
	return &MeetingHandler{
		service: svc,
		log:     log,
	}
}

func (h *MeetingHandler) GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	durationStr := query.Get("duration_min")

	if dateStr == "" || durationStr == "" {
		h.writeError(w, "GetSlots", apperrors.InvalidInput("'date' and 'duration_min' query parameters are required"))
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		h.writeError(w, "GetSlots", apperrors.InvalidInput("invalid date format, must be YYYY-MM-DD"))
		return
	}

	durationMin, err := strconv.Atoi(durationStr)
	if err != nil {
		h.writeError(w, "GetSlots", apperrors.InvalidInput("invalid duration_min parameter: "+durationStr))
		return
	}

	slots, err := h.service.GetSlots(r.Context(), service.SlotQuery{
		RepresentativeID: query.Get("representative_id"),
		InstitutionID:    query.Get("institution_id"),
		Date:             date,
		DurationMin:      durationMin,
		DegreeLevel:      query.Get("degree_level"),
		Country:          query.Get("country"),
	})
	if err != nil {
		h.writeError(w, "GetSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlots", "error", err)
	}
}

func (h *MeetingHandler) AcquireHold(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "AcquireHold")
		return
	}

	hold, err := h.service.AcquireHold(r.Context(), &req)
	if err != nil {
		h.writeError(w, "AcquireHold", err)
		return
	}

	if err := httputil.WriteCreated(w, hold); err != nil {
		h.log.Error("failed to write created response", "handler", "AcquireHold", "error", err)
	}
}

func (h *MeetingHandler) ReleaseHold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	holdID := ps.ByName("id")
	holderID := r.URL.Query().Get("holder_id")

	if holderID == "" {
		h.writeError(w, "ReleaseHold", apperrors.InvalidInput("'holder_id' query parameter is required"))
		return
	}

	if err := h.service.ReleaseHold(r.Context(), holdID, holderID); err != nil {
		h.writeError(w, "ReleaseHold", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MeetingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Book")
		return
	}

	meeting, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, meeting); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "error", err)
	}
}

func (h *MeetingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	meeting, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, meeting); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *MeetingHandler) Transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Transition")
		return
	}

	meeting, err := h.service.Transition(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	if err := httputil.WriteSuccess(w, meeting); err != nil {
		h.log.Error("failed to write success response", "handler", "Transition", "error", err)
	}
}

func (h *MeetingHandler) ProposeReschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "ProposeReschedule")
		return
	}

	meeting, err := h.service.ProposeReschedule(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "ProposeReschedule", err)
		return
	}

	if err := httputil.WriteSuccess(w, meeting); err != nil {
		h.log.Error("failed to write success response", "handler", "ProposeReschedule", "error", err)
	}
}

func (h *MeetingHandler) SendReminder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.SendReminder(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "SendReminder", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *MeetingHandler) AuditTrail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entries, err := h.service.AuditTrail(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "AuditTrail", err)
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "AuditTrail", "error", err)
	}
}

func (h *MeetingHandler) ListByStudent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByStudent", err)
		return
	}

	meetings, total, err := h.service.ListByStudent(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, "ListByStudent", err)
		return
	}

	if err := httputil.WritePaginated(w, meetings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByStudent", "error", err)
	}
}

func (h *MeetingHandler) ListByRepresentative(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByRepresentative", err)
		return
	}

	meetings, total, err := h.service.ListByRepresentative(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, "ListByRepresentative", err)
		return
	}

	if err := httputil.WritePaginated(w, meetings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByRepresentative", "error", err)
	}
}

func (h *MeetingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *MeetingHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", writeErr)
	}
}

func (h *MeetingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.GetSlots)

	router.POST("/api/v1/holds", h.AcquireHold)
	router.DELETE("/api/v1/holds/id/:id", h.ReleaseHold)

	router.POST("/api/v1/meetings", h.Book)
	router.GET("/api/v1/meetings/id/:id", h.GetByID)
	router.POST("/api/v1/meetings/id/:id/transition", h.Transition)
	router.POST("/api/v1/meetings/id/:id/reschedule", h.ProposeReschedule)
	router.POST("/api/v1/meetings/id/:id/reminder", h.SendReminder)
	router.GET("/api/v1/meetings/id/:id/audit", h.AuditTrail)
	router.GET("/api/v1/meetings/student/:id", h.ListByStudent)
	router.GET("/api/v1/meetings/representative/:id", h.ListByRepresentative)
}
