package middleware

import (
	"connectrpc.com/connect"

	"github.com/mmynk/onbeventi/internal/auth"
	"github.com/mmynk/onbeventi/internal/metrics"
)

// Interceptors returns the interceptor chain for every service, outermost
// first: metrics, logging, then bearer auth when jwtManager is set.
func Interceptors(m *metrics.Metrics, jwtManager *auth.JWTManager, publicProcedures ...string) []connect.Interceptor {
	chain := []connect.Interceptor{MetricsInterceptor(m), LoggingInterceptor()}
	if jwtManager != nil {
		chain = append(chain, RequireAuth(jwtManager, publicProcedures...))
	}
	return chain
}
