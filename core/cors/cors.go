package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/querybind/core/handler"
)

// Header names set by a Policy.
const (
	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderMaxAge           = "Access-Control-Max-Age"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderExposeHeaders    = "Access-Control-Expose-Headers"
)

// Config defines a cross-origin resource sharing policy.
type Config struct {
	// AllowOrigins specifies allowed origins. Use "*" for all origins.
	// If empty, defaults to allowing all origins ("*")
	AllowOrigins []string

	// AllowMethods specifies allowed HTTP methods.
	// If empty, defaults to GET, HEAD, PUT, PATCH, POST, DELETE
	AllowMethods []string

	// AllowHeaders specifies allowed request headers.
	// If empty, defaults to common headers including Authorization and Content-Type
	AllowHeaders []string

	// ExposeHeaders specifies which headers are exposed to the client
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials are allowed.
	// Ignored for wildcard origins.
	AllowCredentials bool

	// MaxAge specifies how long preflight results can be cached, in seconds
	MaxAge int
}

// Policy is a compiled, immutable Config. It is built once and shared by
// reference between routes.
type Policy struct {
	origins       map[string]bool
	wildcard      bool
	methods       []string
	allowMethods  string
	allowHeaders  string
	exposeHeaders string
	credentials   bool
	maxAge        string
}

// New compiles cfg into a Policy, filling in defaults for empty lists.
func New(cfg Config) *Policy {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}

	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Origin",
			"Authorization",
			"X-Request-ID",
		}
	}

	p := &Policy{
		origins:       make(map[string]bool, len(cfg.AllowOrigins)),
		wildcard:      len(cfg.AllowOrigins) == 0,
		methods:       make([]string, 0, len(cfg.AllowMethods)),
		allowHeaders:  strings.Join(cfg.AllowHeaders, ", "),
		exposeHeaders: strings.Join(cfg.ExposeHeaders, ", "),
		credentials:   cfg.AllowCredentials,
	}

	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			p.wildcard = true
		}
		p.origins[origin] = true
	}

	for _, m := range cfg.AllowMethods {
		p.methods = append(p.methods, strings.ToUpper(m))
	}
	p.allowMethods = strings.Join(p.methods, ", ")

	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return p
}

// Permissive returns a policy allowing any origin, header and method,
// with preflight results cached for an hour.
func Permissive() *Policy {
	return New(Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowHeaders: []string{"*"},
		MaxAge:       3600,
	})
}

// AllowOrigin resolves the Access-Control-Allow-Origin value for origin.
func (p *Policy) AllowOrigin(origin string) (string, bool) {
	if p.wildcard {
		return "*", true
	}
	if origin != "" && p.origins[origin] {
		return origin, true
	}
	return "", false
}

// AllowsMethod reports whether method is listed by the policy.
func (p *Policy) AllowsMethod(method string) bool {
	return slices.Contains(p.methods, strings.ToUpper(method))
}

// Apply sets the CORS headers for a request from origin. Nothing is set
// when the origin is not allowed. Reports whether headers were applied.
func (p *Policy) Apply(h http.Header, origin string) bool {
	allowed, ok := p.AllowOrigin(origin)
	if !ok {
		return false
	}

	h.Set(HeaderAllowOrigin, allowed)
	h.Set(HeaderAllowMethods, p.allowMethods)
	h.Set(HeaderAllowHeaders, p.allowHeaders)

	if p.maxAge != "" {
		h.Set(HeaderMaxAge, p.maxAge)
	}

	// Credentials must never be combined with a wildcard origin
	if p.credentials && allowed != "*" {
		h.Set(HeaderAllowCredentials, "true")
	}

	if p.exposeHeaders != "" {
		h.Set(HeaderExposeHeaders, p.exposeHeaders)
	}

	if allowed != "*" {
		h.Add("Vary", "Origin")
	}

	return true
}

// Wrap returns a response that applies the policy before delegating to next.
func (p *Policy) Wrap(next handler.Response) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		p.Apply(w.Header(), r.Header.Get("Origin"))
		return next(w, r)
	}
}

// Preflight returns an empty 204 response carrying only the CORS headers.
func (p *Policy) Preflight() handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		p.Apply(w.Header(), r.Header.Get("Origin"))
		w.Header().Add("Vary", "Access-Control-Request-Method")
		w.Header().Add("Vary", "Access-Control-Request-Headers")
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}
