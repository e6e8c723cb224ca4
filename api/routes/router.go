package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazarpo/bazarpo-backend/api/controllers"
	"github.com/bazarpo/bazarpo-backend/api/middleware"
	"github.com/bazarpo/bazarpo-backend/internal/auth"
	"github.com/bazarpo/bazarpo-backend/internal/cars"
	"github.com/bazarpo/bazarpo-backend/internal/orders"
	"github.com/bazarpo/bazarpo-backend/internal/parts"
	"github.com/bazarpo/bazarpo-backend/internal/realtime"
	"github.com/bazarpo/bazarpo-backend/internal/vehicles"
	"github.com/bazarpo/bazarpo-backend/pkg/config"
	"github.com/bazarpo/bazarpo-backend/pkg/enums"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/metrics"
	"github.com/bazarpo/bazarpo-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	MetricsPage http.Handler
	Redis       *redis.Client
	Sessions    middleware.AccessSessionChecker
	DB          controllers.Pinger

	Auth     auth.Service
	Cars     cars.Service
	Parts    parts.Service
	Orders   orders.Service
	Vehicles vehicles.Service
	Hub      *realtime.Hub
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
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

	readyDeps := map[string]controllers.Pinger{"database": deps.DB}
	if deps.Redis != nil {
		readyDeps["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if deps.MetricsPage != nil {
		r.Handle("/metrics", deps.MetricsPage)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})
	})

	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/makes", controllers.CarMakes(deps.Cars, logg))
		r.Get("/models", controllers.CarModels(deps.Cars, logg))
		r.Get("/years", controllers.CarYears(deps.Cars, logg))
		r.Route("/{vin}", func(r chi.Router) {
			r.Get("/history", controllers.VehicleHistory(deps.Vehicles, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg), middleware.RequireRole(enums.UserRoleAdmin.String(), logg)).
				Post("/service-records", controllers.AddServiceRecord(deps.Vehicles, logg))
		})
	})

	r.Get("/api/parts", controllers.SearchParts(deps.Parts, logg))

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Post("/", controllers.CreateOrder(deps.Orders, logg))
		r.Get("/", controllers.ListOrders(deps.Orders, logg))
		r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Route("/parts", func(r chi.Router) {
			r.Get("/", controllers.AdminListParts(deps.Parts, logg))
			r.Post("/", controllers.AdminCreatePart(deps.Parts, logg))
			r.Put("/{id}", controllers.AdminUpdatePart(deps.Parts, logg))
			r.Delete("/{id}", controllers.AdminDeletePart(deps.Parts, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Patch("/{id}", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
			r.Delete("/{id}", controllers.AdminDeleteOrder(deps.Orders, logg))
		})

		r.Get("/analytics", controllers.AdminAnalytics(deps.Orders, logg))
		r.Get("/vehicles", controllers.AdminListVehicles(deps.Vehicles, logg))
		r.Get("/selected", controllers.AdminGetSelected(deps.Vehicles, logg))
		r.Post("/selected", controllers.AdminSetSelected(deps.Vehicles, logg))
	})

	r.Get("/ws/cars/{vin}", controllers.VehicleEvents(deps.Hub, cfg.Realtime, logg))

	return r
}
