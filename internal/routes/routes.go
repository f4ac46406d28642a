package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/HubFlowSystems/appointments-core/internal/audit"
	"github.com/HubFlowSystems/appointments-core/internal/config"
	"github.com/HubFlowSystems/appointments-core/internal/handlers"
	infraRepo "github.com/HubFlowSystems/appointments-core/internal/infra/repository"
	"github.com/HubFlowSystems/appointments-core/internal/lock"
	"github.com/HubFlowSystems/appointments-core/internal/middleware"
	ucAppointment "github.com/HubFlowSystems/appointments-core/internal/usecase/appointment"
	ucBlocked "github.com/HubFlowSystems/appointments-core/internal/usecase/blockedtime"
	ucRecurring "github.com/HubFlowSystems/appointments-core/internal/usecase/recurring"
	ucSchedule "github.com/HubFlowSystems/appointments-core/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	var locker lock.Locker = lock.NewLocalLocker()
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient)
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(bookingRepo, locker, auditDispatcher)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(bookingRepo)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(bookingRepo, auditDispatcher)
	startAppointmentUC := ucAppointment.NewStartAppointment(bookingRepo, auditDispatcher)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(bookingRepo, auditDispatcher)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(bookingRepo, auditDispatcher)
	noShowUC := ucAppointment.NewMarkNoShow(bookingRepo, auditDispatcher)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(bookingRepo, auditDispatcher)
	appointmentQueriesUC := ucAppointment.NewQueries(bookingRepo)
	statsUC := ucAppointment.NewStats(bookingRepo)
	remindersUC := ucAppointment.NewReminders(bookingRepo)
	availabilityUC := ucAppointment.NewGetAvailability(bookingRepo)

	calendarUC := ucSchedule.NewCalendar(bookingRepo)
	blockedTimeUC := ucBlocked.NewManager(bookingRepo)
	recurringTemplatesUC := ucRecurring.NewTemplates(bookingRepo)
	recurringExpanderUC := ucRecurring.NewExpander(bookingRepo, locker, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentUC,
		confirmAppointmentUC,
		startAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		noShowUC,
		rescheduleUC,
		appointmentQueriesUC,
		statsUC,
		remindersUC,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(db, availabilityUC)
	scheduleHandler := handlers.NewScheduleHandler(db, calendarUC)
	blockedTimeHandler := handlers.NewBlockedTimeHandler(db, blockedTimeUC)
	recurringHandler := handlers.NewRecurringHandler(db, recurringTemplatesUC, recurringExpanderUC)
	settingsHandler := handlers.NewSettingsHandler(db, bookingRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/range", appointmentHandler.ListRange)
			secured.GET("/appointments/upcoming", appointmentHandler.Upcoming)
			secured.GET("/appointments/search", appointmentHandler.Search)
			secured.GET("/appointments/stats", appointmentHandler.Stats)
			secured.GET("/appointments/reminders", appointmentHandler.DueReminders)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.GET("/appointments/:id/history", appointmentHandler.History)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/start", appointmentHandler.Start)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/reminder-sent", appointmentHandler.MarkReminderSent)

			secured.GET("/customers/:customerID/appointments", appointmentHandler.ListByCustomer)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/availability", availabilityHandler.Get)

			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.POST("/schedules", scheduleHandler.Create)
			secured.GET("/schedules", scheduleHandler.List)
			secured.PATCH("/schedules/:id/default", scheduleHandler.SetDefault)
			secured.GET("/schedules/:id/slots", scheduleHandler.SlotsForDay)
			secured.POST("/schedules/:id/slots", scheduleHandler.AddTimeSlot)
			secured.DELETE("/schedules/slots/:slotID", scheduleHandler.RemoveTimeSlot)

			// ------------------------------
			// BLOCKED TIME
			// ------------------------------
			secured.POST("/blocked-times", blockedTimeHandler.Create)
			secured.GET("/blocked-times", blockedTimeHandler.List)
			secured.DELETE("/blocked-times/:id", blockedTimeHandler.Delete)

			// ------------------------------
			// RECURRING
			// ------------------------------
			secured.POST("/recurring", recurringHandler.Create)
			secured.GET("/recurring", recurringHandler.List)
			secured.GET("/recurring/:id", recurringHandler.Get)
			secured.PATCH("/recurring/:id/deactivate", recurringHandler.Deactivate)
			secured.POST("/recurring/:id/expand", recurringHandler.Expand)

			// ------------------------------
			// SETTINGS / AUDIT
			// ------------------------------
			secured.GET("/settings", settingsHandler.Get)
			secured.PATCH("/settings", settingsHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
