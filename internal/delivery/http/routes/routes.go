package routes

import (
	"skill-compass/internal/delivery/http/handler"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Handlers carries every route target the server exposes.
type Handlers struct {
	Health          *handler.HealthHandler
	Auth            *handler.AuthHandler
	User            *handler.UserHandler
	UserSkill       *handler.UserSkillHandler
	Skill           *handler.SkillHandler
	Jobs            *handler.JobsHandler
	Recommendations *handler.RecommendationHandler
	Audit           *handler.AuditHandler
	Corpus          *handler.CorpusHandler
	WS              *ws.Handler
}

type Registry struct {
	h     Handlers
	auth  *middleware.AuthMiddleware
	admin *middleware.AdminMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware, admin *middleware.AdminMiddleware) *Registry {
	return &Registry{h: h, auth: auth, admin: admin}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/", r.h.Health.Root)
	app.Get("/health", r.h.Health.Check)
	app.Get("/ws/corpus", r.h.WS.HandleCorpusWS)

	api := app.Group("/api")
	r.registerV1(api.Group("/v1"))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	authGroup := v1.Group("/auth")
	authGroup.Post("/register", r.h.Auth.Register)
	authGroup.Post("/login", r.h.Auth.Login)
	authGroup.Post("/refresh", r.h.Auth.Refresh)

	skills := v1.Group("/skills")
	skills.Get("", r.h.Skill.List)
	skills.Post("", r.h.Skill.Create)

	corpus := v1.Group("/corpus")
	corpus.Get("/status", r.h.Corpus.Status)

	jobs := v1.Group("/jobs")
	jobs.Get("", r.h.Jobs.List)

	protected := v1.Group("", r.auth.Middleware())

	users := protected.Group("/users")
	users.Get("/me", r.h.User.GetMe)
	users.Get("/me/skills", r.h.UserSkill.List)
	users.Post("/me/skills/:skillID", r.h.UserSkill.Attach)
	users.Delete("/me/skills/:skillID", r.h.UserSkill.Detach)
	users.Get("/me/skill-suggestions", r.h.Recommendations.SkillSuggestions)

	// Static job segments are registered before the :jobID param so
	// "recommendations" never parses as a job id.
	recs := protected.Group("/jobs/recommendations")
	recs.Get("/cosine", r.h.Recommendations.Cosine)
	recs.Get("/llr", r.h.Recommendations.LLR)
	recs.Get("/combined", r.h.Recommendations.Combined)

	protectedJobs := protected.Group("/jobs")
	protectedJobs.Post("", r.h.Jobs.Create)
	protectedJobs.Get("/:jobID/skills-analysis", r.h.Recommendations.SkillsAnalysis)

	jobs.Get("/:jobID", r.h.Jobs.Get)

	adminOnly := protected.Group("", r.admin.Middleware())
	adminOnly.Get("/audit/recommendations", r.h.Audit.History)
	adminOnly.Post("/corpus/ingest", r.h.Corpus.TriggerIngest)
}
