package handler

import (
	"errors"
	"net/http"

	"lendefi/core"
	"lendefi/handler/render"
	"lendefi/handler/rest"

	"github.com/go-chi/chi"
)

var errNotFound = errors.New("not found")

// Server server
type Server struct {
	assetStore       core.IAssetStore
	positionStore    core.IPositionStore
	transactionStore core.ITransactionStore
	assetService     core.IAssetService
	positionService  core.IPositionService
	poolService      core.IPoolService
	priceService     core.IPriceOracleService
	sysConfigService core.ISysConfigService
}

// New new server
func New(
	assetStore core.IAssetStore,
	positionStore core.IPositionStore,
	transactionStore core.ITransactionStore,
	assetService core.IAssetService,
	positionService core.IPositionService,
	poolService core.IPoolService,
	priceService core.IPriceOracleService,
	sysConfigService core.ISysConfigService,
) Server {
	return Server{
		assetStore:       assetStore,
		positionStore:    positionStore,
		transactionStore: transactionStore,
		assetService:     assetService,
		positionService:  positionService,
		poolService:      poolService,
		priceService:     priceService,
		sysConfigService: sysConfigService,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errNotFound)
	})

	r.Mount("/", rest.Handle(
		s.assetStore,
		s.positionStore,
		s.transactionStore,
		s.assetService,
		s.positionService,
		s.poolService,
		s.priceService,
		s.sysConfigService,
	))

	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
