// Package handlers contains HTTP handler interfaces and middleware shared by
// the API server.
//
// # Health Checks
//
// The HealthChecker interface allows registering named checks that run in
// parallel:
//
//	checker := handlers.NewCompositeHealthChecker("v1.0.0")
//	checker.AddCheck("store", handlers.NewPingCheck(backend))
//	checker.AddOptionalCheck("ranking_cache", handlers.NewPingCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Healthy {
//	    log.Printf("Health check failed: %s", status.Message)
//	}
//
// A failing optional check marks the service degraded but keeps it ready.
//
// # Authentication
//
// BearerAuth guards every route under a prefix with a session token:
//
//	guard := handlers.NewBearerAuth(authService, nil, "/api/v1/auth/login")
//	h = guard.Middleware("/api/v1/")(h)
//
// The verified claims are available through ClaimsFromContext.
package handlers
