package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/metrics"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/pkg/authz"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/jwtx"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"

	_ "github.com/aussiebroadwan/orgflow/api/orgflow" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is anything /readyz can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	authz        httpx.Authorizer
	limits       httpx.Limits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	// Database and Snapshots are probed by /readyz. Snapshots may be the
	// database itself.
	Database  Pinger
	Snapshots Pinger

	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	ProjectService *service.ProjectService
	ChartService   *service.ChartService
}

func NewRouter(
	verifier jwtx.Verifier,
	az httpx.Authorizer,
	limits httpx.Limits,
	buildVersion string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		authz:        az,
		limits:       limits.OrDefault(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      m,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAccounts()
	r.registerCatalog()
	r.registerChart()
	r.registerProjects()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			orgflow API
//	@version		0.1.0
//	@description	Org chart editor, domain/industry catalog and project dashboard.
//	@description
//	@description				Chart commands are checked against the caller's role; only the privileged role may change the chart.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/orgflow
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:10000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token from /login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle mounts h under pattern with request metrics labelled by pattern.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	mws = append([]httpx.Middleware{r.metrics.Middleware(pattern)}, mws...)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

// authed verifies the bearer token, checks the permission and limits per user.
func (r *Router) authed(object, action string, limit httpx.RateLimitConfig) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermission(r.authz, object, action),
		httpx.RateLimitByUser(limit),
	}
}

func (r *Router) registerSystem() {
	r.handle("GET /{$}", BannerHandler(r.buildVersion), httpx.RateLimitByIP(r.limits.Public))

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion), httpx.RateLimitByIP(r.limits.Lenient))
	r.handle("GET /readyz",
		ReadyzHandler(r.startTime, r.buildVersion, r.Database, r.Snapshots),
		httpx.RateLimitByIP(r.limits.Lenient),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{AuthService: r.AuthService}

	// Credential endpoints - strict rate limit by IP against brute force
	r.handle("POST /signup", http.HandlerFunc(h.HandleSignup), httpx.RateLimitByIP(r.limits.Strict))
	r.handle("POST /login", http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIP(r.limits.Strict))

	r.handle("GET /admin-only", http.HandlerFunc(h.HandleAdminOnly),
		r.authed(authz.ObjectAdmin, authz.ActionAccess, r.limits.Moderate)...)
}

func (r *Router) registerCatalog() {
	h := &CatalogHandler{CatalogService: r.CatalogService}

	r.handle("GET /api/domains", http.HandlerFunc(h.HandleList), httpx.RateLimitByIP(r.limits.Lenient))

	write := r.authed(authz.ObjectCatalog, authz.ActionWrite, r.limits.Moderate)
	r.handle("POST /api/domains", http.HandlerFunc(h.HandleCreateDomain), write...)
	r.handle("POST /api/domains/{domainId}/industries", http.HandlerFunc(h.HandleCreateIndustry), write...)
	r.handle("DELETE /api/domains/{domainId}", http.HandlerFunc(h.HandleDeleteDomain), write...)
	r.handle("DELETE /api/industries/{industryId}", http.HandlerFunc(h.HandleDeleteIndustry), write...)
}

func (r *Router) registerChart() {
	h := &ChartHandler{ChartService: r.ChartService}

	read := r.authed(authz.ObjectChart, authz.ActionRead, r.limits.Lenient)
	r.handle("GET /api/chart", http.HandlerFunc(h.HandleChart), read...)
	r.handle("GET /api/chart/tree", http.HandlerFunc(h.HandleTree), read...)
	r.handle("GET /api/chart/roots", http.HandlerFunc(h.HandleRoots), read...)
	r.handle("GET /api/chart/nodes/{id}/children", http.HandlerFunc(h.HandleChildren), read...)
	r.handle("GET /api/chart/roles", http.HandlerFunc(h.HandleRoles), read...)

	// Writes are authenticated here and gated per command by the chart
	// service, which reports 403 for roles that may not change the chart.
	write := []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(r.limits.Moderate),
	}
	r.handle("POST /api/chart/nodes", http.HandlerFunc(h.HandleAddNode), write...)
	r.handle("PUT /api/chart/nodes/{id}", http.HandlerFunc(h.HandleUpdateNode), write...)
	r.handle("DELETE /api/chart/nodes/{id}", http.HandlerFunc(h.HandleDeleteNode), write...)
	r.handle("POST /api/chart/roles", http.HandlerFunc(h.HandleAddRole), write...)
	r.handle("PUT /api/chart/roles", http.HandlerFunc(h.HandleReplaceRoles), write...)
	r.handle("DELETE /api/chart/roles/{id}", http.HandlerFunc(h.HandleRemoveRole), write...)
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}

	read := r.authed(authz.ObjectProjects, authz.ActionRead, r.limits.Lenient)
	write := r.authed(authz.ObjectProjects, authz.ActionWrite, r.limits.Moderate)

	r.handle("GET /api/projects", http.HandlerFunc(h.HandleList), read...)
	r.handle("GET /api/projects/stats", http.HandlerFunc(h.HandleStats), read...)
	r.handle("POST /api/projects", http.HandlerFunc(h.HandleCreate), write...)
	r.handle("PUT /api/projects/{id}", http.HandlerFunc(h.HandleUpdate), write...)
	r.handle("DELETE /api/projects/{id}", http.HandlerFunc(h.HandleDelete), write...)
}
