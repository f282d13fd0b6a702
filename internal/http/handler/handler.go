package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/apperr"
	"backend-antrian-pst/internal/http/middleware"
	"backend-antrian-pst/internal/http/response"
	"backend-antrian-pst/internal/models"
	"backend-antrian-pst/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Me(ctx context.Context, userID int64) (models.UserResponse, error)
}

type IntakeService interface {
	SubmitGuest(ctx context.Context, form models.VisitorForm, actor service.Actor) (service.QueueCreated, error)
	SubmitVisitorForm(ctx context.Context, form models.VisitorForm, linkUUID string) (service.QueueCreated, error)
}

type LifecycleService interface {
	Serve(ctx context.Context, queueID int64, actor service.Actor) (models.QueueDetail, error)
	Complete(ctx context.Context, queueID int64, actor service.Actor) (models.QueueDetail, error)
	Cancel(ctx context.Context, queueID int64, actor service.Actor) (models.QueueDetail, error)
}

type QueryService interface {
	List(ctx context.Context, p service.ListParams) (service.QueueList, error)
	Get(ctx context.Context, id int64) (models.QueueDetail, error)
	Track(ctx context.Context, uuid string) (service.Tracking, error)
}

type DisplayService interface {
	Display(ctx context.Context, p service.DisplayParams) (service.DisplayFeed, error)
}

type DashboardService interface {
	Stats(ctx context.Context, prevHash string) (service.DashboardResult, error)
}

type NotificationService interface {
	Unread(ctx context.Context, userID int64, prevHash string) (service.NotificationList, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type TempLinkService interface {
	Issue(ctx context.Context, actor service.Actor) (service.IssuedLink, error)
	Open(ctx context.Context, linkUUID string) (service.FormSession, error)
}

type ReminderService interface {
	Remind(ctx context.Context, queueID int64, actor service.Actor) (service.ReminderResult, error)
	MarkSKD(ctx context.Context, queueID int64, actor service.Actor) (models.QueueDetail, error)
}

type CatalogService interface {
	List(ctx context.Context, onlyActive bool) ([]models.Service, error)
	Get(ctx context.Context, id int64) (models.Service, error)
	Create(ctx context.Context, req models.CreateServiceRequest) (models.Service, error)
	Update(ctx context.Context, id int64, req models.UpdateServiceRequest) (models.Service, error)
	Delete(ctx context.Context, id int64) error
}

type OpeningHoursService interface {
	Get(ctx context.Context) (service.OpeningHours, error)
	Update(ctx context.Context, req models.UpdateConfigRequest) (service.OpeningHours, error)
}

type ReportService interface {
	ExportQueues(ctx context.Context, startDate, endDate string) ([]byte, string, error)
}

type HealthService interface {
	Check(ctx context.Context) service.HealthReport
}

// Handler holds the services behind every endpoint. The router registers
// every route, so each field must be set before serving; Log may be nil.
type Handler struct {
	Auth          AuthService
	Intake        IntakeService
	Lifecycle     LifecycleService
	Query         QueryService
	Display       DisplayService
	Dashboard     DashboardService
	Notifications NotificationService
	TempLinks     TempLinkService
	Reminders     ReminderService
	Catalog       CatalogService
	Hours         OpeningHoursService
	Reports       ReportService
	Health        HealthService
	Log           *zap.Logger
}

// fail writes the error envelope. Server-side failures also log their
// cause, which the response body never carries.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	e := apperr.From(err)
	if (e.Kind == apperr.KindInternal || e.Kind == apperr.KindDependency) && h.Log != nil {
		h.Log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", e.Code),
			zap.String("message", e.Message),
			zap.Error(e.Err))
	}
	return response.Error(c, e)
}

// actor reads the staff identity JWTAuth stored on the request.
func actor(c *fiber.Ctx) (service.Actor, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(int64)
	if !ok || userID == 0 {
		return service.Actor{}, apperr.Unauthorized("Sesi tidak valid")
	}
	role, _ := c.Locals(middleware.LocalRole).(string)
	return service.Actor{UserID: userID, Role: role}, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation(name + " tidak valid")
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation(name + " harus berupa angka positif")
	}
	return n, nil
}

func queryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, apperr.Validation(name + " tidak valid")
	}
	return &id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Body request tidak valid")
	}
	return nil
}
