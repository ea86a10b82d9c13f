package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/onbeventi/internal/calculator"
	"github.com/mmynk/onbeventi/internal/clock"
	"github.com/mmynk/onbeventi/internal/repository"
)

// DescriptionGenerator writes event descriptions. It never fails: problems
// come back as user-facing text. *describe.Generator implements it.
type DescriptionGenerator interface {
	Generate(ctx context.Context, title, mood string) string
}

// EventService implements the Connect EventService.
type EventService struct {
	repo         *repository.Repository
	descriptions DescriptionGenerator
	clock        clock.Clock
}

// NewEventService creates a new EventService over repo.
func NewEventService(repo *repository.Repository, descriptions DescriptionGenerator, clk clock.Clock) *EventService {
	return &EventService{repo: repo, descriptions: descriptions, clock: clk}
}

// Handler returns the path prefix and handler serving every EventService
// procedure.
func (s *EventService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateEventProcedure, connect.NewUnaryHandler(CreateEventProcedure, s.CreateEvent, opts...))
	mux.Handle(UpdateEventProcedure, connect.NewUnaryHandler(UpdateEventProcedure, s.UpdateEvent, opts...))
	mux.Handle(GetEventProcedure, connect.NewUnaryHandler(GetEventProcedure, s.GetEvent, opts...))
	mux.Handle(ListEventsProcedure, connect.NewUnaryHandler(ListEventsProcedure, s.ListEvents, opts...))
	mux.Handle(DeleteEventProcedure, connect.NewUnaryHandler(DeleteEventProcedure, s.DeleteEvent, opts...))
	mux.Handle(AddAttendeeProcedure, connect.NewUnaryHandler(AddAttendeeProcedure, s.AddAttendee, opts...))
	mux.Handle(UpdateAttendeeProcedure, connect.NewUnaryHandler(UpdateAttendeeProcedure, s.UpdateAttendee, opts...))
	mux.Handle(TogglePaymentStatusProcedure, connect.NewUnaryHandler(TogglePaymentStatusProcedure, s.TogglePaymentStatus, opts...))
	mux.Handle(DeleteAttendeeProcedure, connect.NewUnaryHandler(DeleteAttendeeProcedure, s.DeleteAttendee, opts...))
	mux.Handle(AddExpenseProcedure, connect.NewUnaryHandler(AddExpenseProcedure, s.AddExpense, opts...))
	mux.Handle(DeleteExpenseProcedure, connect.NewUnaryHandler(DeleteExpenseProcedure, s.DeleteExpense, opts...))
	mux.Handle(GetDashboardProcedure, connect.NewUnaryHandler(GetDashboardProcedure, s.GetDashboard, opts...))
	mux.Handle(GenerateDescriptionProcedure, connect.NewUnaryHandler(GenerateDescriptionProcedure, s.GenerateDescription, opts...))
	return "/" + EventServiceName + "/", mux
}

// CreateEvent stores a new event, or replaces the event with the same id.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[EventResponse], error) {
	slog.DebugContext(ctx, "CreateEvent request", "event_id", req.Msg.Event.ID, "title", req.Msg.Event.Title)

	event, err := s.repo.CreateOrReplace(ctx, req.Msg.Event)
	if err != nil {
		return nil, toConnectError(ctx, "CreateEvent", err)
	}

	slog.InfoContext(ctx, "Event saved", "event_id", event.ID, "revision", event.Revision)
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

// UpdateEvent replaces the details of an existing event.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[UpdateEventRequest]) (*connect.Response[EventResponse], error) {
	msg := req.Msg
	if msg.EventID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("eventId is required"))
	}

	event, err := s.repo.UpdateDetails(ctx, msg.EventID, msg.Revision, repository.EventDetails{
		Title:        msg.Title,
		Description:  msg.Description,
		Date:         msg.Date,
		Time:         msg.Time,
		Location:     msg.Location,
		Cost:         msg.Cost,
		MaxAttendees: msg.MaxAttendees,
	})
	if err != nil {
		return nil, toConnectError(ctx, "UpdateEvent", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

// GetEvent returns one event with its summary.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[EventRequest]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.Get(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(ctx, "GetEvent", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

// ListEvents returns every event in insertion order.
func (s *EventService) ListEvents(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[ListEventsResponse], error) {
	events := s.repo.List(ctx)
	views := make([]*EventView, len(events))
	for i := range events {
		views[i] = newEventView(&events[i])
	}
	return connect.NewResponse(&ListEventsResponse{Events: views}), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[EventRequest]) (*connect.Response[DeleteEventResponse], error) {
	if err := s.repo.Delete(ctx, req.Msg.EventID); err != nil {
		return nil, toConnectError(ctx, "DeleteEvent", err)
	}
	slog.InfoContext(ctx, "Event deleted", "event_id", req.Msg.EventID)
	return connect.NewResponse(&DeleteEventResponse{}), nil
}

// AddAttendee registers a participant, refusing it when the event is full.
func (s *EventService) AddAttendee(ctx context.Context, req *connect.Request[AttendeeRequest]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.AddAttendee(ctx, req.Msg.EventID, req.Msg.Attendee)
	if err != nil {
		return nil, toConnectError(ctx, "AddAttendee", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

func (s *EventService) UpdateAttendee(ctx context.Context, req *connect.Request[AttendeeRequest]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.UpdateAttendee(ctx, req.Msg.EventID, req.Msg.Attendee)
	if err != nil {
		return nil, toConnectError(ctx, "UpdateAttendee", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

// TogglePaymentStatus flips an attendee between PENDING and PAID.
func (s *EventService) TogglePaymentStatus(ctx context.Context, req *connect.Request[AttendeeRef]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.TogglePaymentStatus(ctx, req.Msg.EventID, req.Msg.AttendeeID)
	if err != nil {
		return nil, toConnectError(ctx, "TogglePaymentStatus", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

func (s *EventService) DeleteAttendee(ctx context.Context, req *connect.Request[AttendeeRef]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.DeleteAttendee(ctx, req.Msg.EventID, req.Msg.AttendeeID)
	if err != nil {
		return nil, toConnectError(ctx, "DeleteAttendee", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

func (s *EventService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.AddExpense(ctx, req.Msg.EventID, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(ctx, "AddExpense", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

func (s *EventService) DeleteExpense(ctx context.Context, req *connect.Request[ExpenseRef]) (*connect.Response[EventResponse], error) {
	event, err := s.repo.DeleteExpense(ctx, req.Msg.EventID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(ctx, "DeleteExpense", err)
	}
	return connect.NewResponse(&EventResponse{Event: newEventView(event)}), nil
}

// GetDashboard aggregates every event as of now.
func (s *EventService) GetDashboard(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[DashboardResponse], error) {
	dash := calculator.BuildDashboard(s.repo.List(ctx), s.clock.Now())
	return connect.NewResponse(&DashboardResponse{Dashboard: dash}), nil
}

// GenerateDescription drafts a description for a title. It does not fail:
// generation problems are reported in the text.
func (s *EventService) GenerateDescription(ctx context.Context, req *connect.Request[GenerateDescriptionRequest]) (*connect.Response[GenerateDescriptionResponse], error) {
	text := s.descriptions.Generate(ctx, req.Msg.Title, req.Msg.Mood)
	return connect.NewResponse(&GenerateDescriptionResponse{Description: text}), nil
}
