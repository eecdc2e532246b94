package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/i18n"
	"docflow/internal/service"
)

// Services bundles everything the HTTP surface depends on. DB is nil unless
// the postgres blob backend is active.
type Services struct {
	Auth        *service.AuthService
	Documents   *service.DocumentStore
	Tasks       *service.TaskStore
	Analytics   *service.Analytics
	Preferences *service.Preferences
	Translator  *i18n.Translator
	DB          *sql.DB
}

// RegisterRoutes attaches all HTTP routes to the Fiber app. Everything except
// health probes, locale tables, and the auth entry points requires a session.
func RegisterRoutes(app *fiber.App, svc Services) {
	requireAuth := middleware.Authenticate(svc.Auth)

	app.Get("/health", HealthCheck(svc.DB))
	app.Get("/healthz", LivenessProbe())

	auth := app.Group("/auth")
	auth.Post("/register", Register(svc.Auth))
	auth.Post("/login", Login(svc.Auth))
	auth.Post("/logout", Logout())
	auth.Get("/me", requireAuth, Me())

	docs := app.Group("/documents", requireAuth)
	docs.Get("/", ListDocuments(svc.Documents))
	docs.Post("/", CreateDocument(svc.Documents))
	docs.Get("/:id", GetDocument(svc.Documents))
	docs.Patch("/:id", UpdateDocument(svc.Documents))
	docs.Delete("/:id", DeleteDocument(svc.Documents))
	docs.Post("/:id/attachment", UploadAttachment(svc.Documents))
	docs.Get("/:id/attachment", AttachmentURL(svc.Documents))

	tasks := app.Group("/tasks", requireAuth)
	tasks.Get("/", ListTasks(svc.Tasks))
	tasks.Post("/", CreateTask(svc.Tasks))
	tasks.Get("/:id", GetTask(svc.Tasks))
	tasks.Patch("/:id", UpdateTask(svc.Tasks))
	tasks.Delete("/:id", DeleteTask(svc.Tasks))

	analytics := app.Group("/analytics", requireAuth)
	analytics.Get("/documents/status", DocumentStatusChart(svc.Analytics))
	analytics.Get("/documents/trend", DocumentTrendChart(svc.Analytics))
	analytics.Get("/tasks/status", TaskStatusChart(svc.Analytics))
	analytics.Get("/processing-time", ProcessingTimeChart(svc.Analytics))
	analytics.Post("/refresh", RefreshAnalytics(svc.Analytics))

	app.Get("/i18n", ListLocales(svc.Translator))
	app.Get("/i18n/:locale", LocaleTable(svc.Translator))

	prefs := app.Group("/preferences", requireAuth)
	prefs.Get("/", GetPreferences(svc.Preferences))
	prefs.Put("/", PutPreferences(svc.Preferences))
	prefs.Post("/sidebar", ToggleSidebar(svc.Preferences))
}
