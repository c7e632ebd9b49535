package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Neelesh56789/Smart-LMS/api/controllers"
	authcontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/auth"
	cartcontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/cart"
	checkoutcontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/checkout"
	coursecontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/courses"
	ordercontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/orders"
	progresscontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/progress"
	webhookcontrollers "github.com/Neelesh56789/Smart-LMS/api/controllers/webhooks"
	"github.com/Neelesh56789/Smart-LMS/api/middleware"
	authsvc "github.com/Neelesh56789/Smart-LMS/internal/auth"
	cartsvc "github.com/Neelesh56789/Smart-LMS/internal/cart"
	checkoutsvc "github.com/Neelesh56789/Smart-LMS/internal/checkout"
	coursesvc "github.com/Neelesh56789/Smart-LMS/internal/courses"
	ordersvc "github.com/Neelesh56789/Smart-LMS/internal/orders"
	progresssvc "github.com/Neelesh56789/Smart-LMS/internal/progress"
	stripewebhook "github.com/Neelesh56789/Smart-LMS/internal/webhooks/stripe"
	"github.com/Neelesh56789/Smart-LMS/pkg/config"
	"github.com/Neelesh56789/Smart-LMS/pkg/db"
	"github.com/Neelesh56789/Smart-LMS/pkg/logger"
	"github.com/Neelesh56789/Smart-LMS/pkg/metrics"
	"github.com/Neelesh56789/Smart-LMS/pkg/redis"
	"github.com/Neelesh56789/Smart-LMS/pkg/stripe"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	AuthService     authsvc.Service
	CourseService   *coursesvc.Service
	CartService     *cartsvc.Service
	CheckoutService *checkoutsvc.Service
	OrderService    *ordersvc.Service
	ProgressService *progresssvc.Service

	StripeClient   *stripe.Client
	WebhookService *stripewebhook.Service
	WebhookMetrics *metrics.WebhookMetrics
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookMetrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", authcontrollers.Login(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", authcontrollers.Register(p.AuthService, logg))
	})

	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Get("/", coursecontrollers.List(p.CourseService, logg))
		r.Get("/{courseId}", coursecontrollers.Detail(p.CourseService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/{courseId}/content", coursecontrollers.Content(p.CourseService, logg))
			r.Get("/{courseId}/progress", progresscontrollers.Summary(p.ProgressService, logg))
			r.Get("/{courseId}/certificate", progresscontrollers.Certificate(p.ProgressService, logg))
		})
	})
	r.Get("/api/v1/categories", coursecontrollers.Categories(p.CourseService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(p.CartService, logg))
			r.Delete("/", cartcontrollers.Clear(p.CartService, logg))
			r.Post("/items", cartcontrollers.AddItem(p.CartService, logg))
			r.Delete("/items/{courseId}", cartcontrollers.RemoveItem(p.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.History(p.OrderService, logg))
			r.Get("/my-courses", ordercontrollers.MyCourses(p.OrderService, logg))
			r.Post("/create-checkout-session", checkoutcontrollers.CreateSession(p.CheckoutService, logg))
		})

		r.Post("/lessons/{lessonId}/complete", progresscontrollers.CompleteLesson(p.ProgressService, logg))
	})

	return r
}
