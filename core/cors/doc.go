// Package cors compiles cross-origin resource sharing settings into an
// immutable Policy that routes share by reference.
//
//	policy := cors.New(cors.Config{
//		AllowOrigins:     []string{"https://app.example.com"},
//		AllowCredentials: true,
//		MaxAge:           600,
//	})
//
// Apply writes the six Access-Control-* headers for an allowed origin.
// Preflight returns the empty 204 response used for OPTIONS requests.
// Credentials are never advertised together with a wildcard origin.
package cors
