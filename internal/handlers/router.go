package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"smartlio/internal/metrics"
	"smartlio/internal/security"
)

// RouterConfig carries everything NewRouter needs to mount the API
type RouterConfig struct {
	Family         *FamilyHandler
	Helpline       *HelplineHandler
	Business       *BusinessHandler
	System         *SystemHandler
	Metrics        *metrics.Metrics
	Logger         *logrus.Logger
	StaticPath     string
	AllowedOrigins []string
	RequestTimeout time.Duration

	// WriteLimiter throttles the create endpoints when set
	WriteLimiter *security.RateLimiter
}

// NewRouter builds the chi router with middleware and every route
func NewRouter(rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: rc.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(rc.Logger))
	r.Use(Instrument(rc.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(rc.RequestTimeout))
	r.Use(corsHandler.Handler)

	r.Get("/", rc.System.Root)
	r.Get("/healthz", rc.System.Health)
	r.Get("/map", rc.System.Map)
	r.Method(http.MethodGet, "/metrics", rc.Metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(rc.StaticPath))))

	throttled := chi.Chain()
	if rc.WriteLimiter != nil {
		throttled = chi.Chain(rc.WriteLimiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, rc.Logger, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
		}))
	}

	r.Get("/get-places", rc.Business.GetPlaces)
	r.With(throttled...).Post("/add-business", rc.Business.AddBusiness)
	r.Get("/list-businesses", rc.Business.ListBusinesses)

	r.Route("/family", func(r chi.Router) {
		r.With(throttled...).Post("/create", rc.Family.CreateFamily)
		r.Get("/list", rc.Family.ListFamilies)
		r.With(throttled...).Post("/add-member", rc.Family.AddMember)
		r.Post("/update-location", rc.Family.UpdateLocation)
		r.Post("/toggle-share/{member_id}", rc.Family.ToggleShare)
		r.Get("/members/{family_id}", rc.Family.ListMembers)
	})

	r.Get("/helplines", rc.Helpline.ListHelplines)
	r.Post("/sos", rc.Helpline.TriggerSOS)

	return r
}
