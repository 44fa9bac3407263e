package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camphub/campus-events-api/internal/dto"
	apierrors "github.com/camphub/campus-events-api/internal/errors"
	"github.com/camphub/campus-events-api/internal/logger"
	"github.com/camphub/campus-events-api/internal/middleware"
	"github.com/camphub/campus-events-api/internal/models"
	"github.com/camphub/campus-events-api/internal/services"
	"github.com/camphub/campus-events-api/internal/utils"
	"github.com/camphub/campus-events-api/internal/validation"
)

// EventHandler coordinates event and RSVP HTTP handlers.
type EventHandler struct {
	eventService *services.EventService
	rsvpService  *services.RSVPService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, rsvpService *services.RSVPService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		rsvpService:  rsvpService,
	}
}

// EventRequest carries the writable event fields in create/update payloads.
type EventRequest struct {
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	StartDateTime        time.Time            `json:"start_date_time"`
	EndDateTime          time.Time            `json:"end_date_time"`
	Location             string               `json:"location"`
	Category             models.EventCategory `json:"category"`
	Capacity             int                  `json:"capacity"`
	TicketPrice          float64              `json:"ticket_price"`
	Tags                 []string             `json:"tags"`
	ImageURL             string               `json:"image_url"`
	IsPrivate            bool                 `json:"is_private"`
	RegistrationDeadline *time.Time           `json:"registration_deadline"`
}

func (r EventRequest) toInput() services.EventInput {
	return services.EventInput{
		Name:                 r.Name,
		Description:          r.Description,
		StartDateTime:        r.StartDateTime,
		EndDateTime:          r.EndDateTime,
		Location:             r.Location,
		Category:             r.Category,
		Capacity:             r.Capacity,
		TicketPrice:          r.TicketPrice,
		Tags:                 r.Tags,
		ImageURL:             r.ImageURL,
		IsPrivate:            r.IsPrivate,
		RegistrationDeadline: r.RegistrationDeadline,
	}
}

// List returns all events, paginated and ordered by start time. Serves both
// the authenticated listing and the public one.
func (h *EventHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	events, total, err := h.eventService.List(params)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventListResponse(events, params.Page, params.Limit, total))
}

// Get returns a single hydrated event.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// Create creates a new event owned by the authenticated admin.
func (h *EventHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.Create(userID, req.toInput())
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// Update modifies an event. Only the organizer succeeds; anyone else gets the
// same 404 as a missing event.
func (h *EventHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.Update(eventID, userID, req.toInput())
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// Delete removes an event with the same ownership semantics as Update.
func (h *EventHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(eventID, userID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

// RSVP reserves a seat for the authenticated user.
func (h *EventHandler) RSVP(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.rsvpService.Reserve(eventID, userID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// CancelRSVP removes the authenticated user's reservation.
func (h *EventHandler) CancelRSVP(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.rsvpService.Cancel(eventID, userID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// Attendees returns the event's attendee list.
func (h *EventHandler) Attendees(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	attendees, err := h.rsvpService.ListAttendees(eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	result := make([]dto.AttendanceDTO, len(attendees))
	for i, a := range attendees {
		result[i] = dto.ToAttendanceDTO(a)
	}

	c.JSON(http.StatusOK, result)
}

// eventIDParam parses the :id path parameter. A non-numeric id names no
// event, so it reports 404 like any other missing resource.
func eventIDParam(c *gin.Context) (uint64, bool) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Event not found")
		return 0, false
	}
	return eventID, true
}

func respondEventError(c *gin.Context, err error) {
	var fields validation.FieldErrors

	switch {
	case errors.As(err, &fields):
		apierrors.ValidationFailed(c, fields)
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, "Event not found")
	case errors.Is(err, services.ErrEventNotFoundOrUnauthorized):
		apierrors.NotFound(c, "Event not found or unauthorized")
	case errors.Is(err, services.ErrCapacityExceeded):
		apierrors.NotAcceptable(c, "Event is at full capacity")
	case errors.Is(err, services.ErrAlreadyRegistered):
		apierrors.Forbidden(c, "You have already RSVP'd to this event")
	case errors.Is(err, services.ErrNotRegistered):
		apierrors.BadRequest(c, "You have not RSVP'd to this event")
	default:
		logger.Error("event request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
