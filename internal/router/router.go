package router

import (
	"database/sql"
	"net/http"

	"workspace-access/internal/adapters/activitylog"
	mem "workspace-access/internal/adapters/storage/memory"
	pg "workspace-access/internal/adapters/storage/postgres"
	"workspace-access/internal/adapters/workspace/memdir"
	"workspace-access/internal/domain/access"
	"workspace-access/internal/middleware"
	"workspace-access/internal/platform/logger"
	"workspace-access/internal/platform/metrics"
	"workspace-access/internal/ports/auth"
	"workspace-access/internal/ports/workspace"

	_ "workspace-access/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Directory es el servicio de workspace: roles por organización y un lookup por tipo de recurso.
// Lo implementan memdir.Directory y httpdir.Client.
type Directory interface {
	workspace.OrgRoles
	Lookup(resourceType string) workspace.ResourceLookup
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger

	// Store: Repo tiene prioridad; si no, DB => Postgres; si no, in-memory.
	Repo access.Repository
	DB   *sql.DB

	Directory Directory             // nil => directorio vacío en memoria
	Activity  workspace.ActivityLog // nil => log estructurado
	Locker    access.Locker         // nil => lock in-process
}

// ResourceTypes son los tipos que se registran en el Registry.
var ResourceTypes = []access.ResourceType{
	access.ResourceOrganization,
	access.ResourceDepartment,
	access.ResourceTeam,
	access.ResourceProject,
	access.ResourcePhase,
	access.ResourceSprint,
	access.ResourceFolder,
	access.ResourceDocument,
	access.ResourceSheet,
	access.ResourceSlide,
	access.ResourceBug,
	access.ResourceRequirement,
}

// NewRouter arma el servicio y las rutas. Falla solo si el Registry es inválido.
func NewRouter(opts Options) (http.Handler, *access.Service, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	repo := opts.Repo
	if repo == nil {
		if opts.DB != nil {
			repo = pg.NewAccessGrantsRepo(opts.DB)
		} else {
			repo = mem.NewAccessGrantsRepo()
		}
	}

	dir := opts.Directory
	if dir == nil {
		dir = memdir.New()
	}

	lookups := make(map[access.ResourceType]workspace.ResourceLookup, len(ResourceTypes))
	for _, t := range ResourceTypes {
		lookups[t] = dir.Lookup(string(t))
	}
	registry, err := access.NewRegistry(lookups)
	if err != nil {
		return nil, nil, err
	}
	log.Info("resource registry ready", map[string]any{"resource_types": registry.Types()})

	activity := opts.Activity
	if activity == nil {
		activity = activitylog.NewLogSink(log)
	}

	svc := access.NewService(repo, access.Deps{
		Roles:     dir,
		Resources: registry,
		Activity:  activity,
		Locker:    opts.Locker,
		Logger:    log,
	})

	access.RegisterRoutes(r, svc)

	return r, svc, nil
}
