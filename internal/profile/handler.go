package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/querybind/core/binder"
	"github.com/dmitrymomot/querybind/core/cors"
	"github.com/dmitrymomot/querybind/core/handler"
	"github.com/dmitrymomot/querybind/core/logger"
	"github.com/dmitrymomot/querybind/core/response"
	"github.com/dmitrymomot/querybind/core/router"
)

// envelope wraps every successful body.
type envelope[T any] struct {
	Data T `json:"data"`
}

// Service exposes a Directory over HTTP.
type Service struct {
	dir    *Directory
	mode   binder.Mode
	policy *cors.Policy
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMode sets the binding mode used by the list endpoint.
func WithMode(mode binder.Mode) ServiceOption {
	return func(s *Service) {
		s.mode = mode
	}
}

// WithPolicy replaces the permissive CORS policy.
func WithPolicy(p *cors.Policy) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over dir.
func NewService(dir *Directory, opts ...ServiceOption) *Service {
	s := &Service{
		dir:    dir,
		mode:   binder.Strict,
		policy: cors.Permissive(),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the route groups served by the service:
//
//	GET /profile/{name}  single lookup, always strict
//	GET /profile         paged list with optional sorting
//
// Both groups are CORS-wrapped and answer preflight requests.
func Routes[C handler.Context](s *Service) []router.RouteGroup[C] {
	return []router.RouteGroup[C]{
		{
			Pattern: "/profile/{name}",
			Methods: []string{http.MethodGet},
			Handler: router.Query(func(ctx C, q SingleQuery) handler.Response {
				return s.single(q)
			}),
			CORS: s.policy,
			Wrap: true,
		},
		{
			Pattern: "/profile",
			Methods: []string{http.MethodGet},
			Handler: router.QueryWithMode(s.mode, func(ctx C, q ListQuery) handler.Response {
				return s.list(q)
			}),
			CORS: s.policy,
			Wrap: true,
		},
	}
}

// Register adds the service routes to r.
func Register[C handler.Context](r router.Router[C], s *Service) error {
	for _, g := range Routes[C](s) {
		if err := r.Register(g); err != nil {
			return err
		}
		s.logger.Debug("profile routes registered",
			logger.Component("profile"),
			logger.Path(g.Pattern),
			logger.Mode(s.modeFor(g.Pattern)),
		)
	}
	return nil
}

func (s *Service) modeFor(pattern string) binder.Mode {
	if pattern == "/profile" {
		return s.mode
	}
	return binder.Strict
}

func (s *Service) single(q SingleQuery) handler.Response {
	p, err := s.dir.Single(q.Name)
	if errors.Is(err, ErrNotFound) {
		return response.Fail(response.ErrNotFound.WithMessage("no profile named `" + q.Name + "`").WithError(err))
	}
	if err != nil {
		return response.Fail(err)
	}
	return response.JSON(envelope[Person]{Data: p})
}

func (s *Service) list(q ListQuery) handler.Response {
	return response.JSON(envelope[Page]{Data: s.dir.List(q)})
}
