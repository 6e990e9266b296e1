// Package health exposes liveness and readiness checks for long-running
// langaudit processes such as watch mode.
//
// Components register named checks; readiness runs every check
// concurrently with a per-check timeout and reports "degraded" when any of
// them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("corpus", func(ctx context.Context) error {
//		_, err := os.Stat(referenceDir)
//		return err
//	})
//
//	mux := http.NewServeMux()
//	checker.Mount(mux, health.VersionInfo{Version: "0.1.0"})
//
// Endpoints:
//   - /health: liveness, always 200 while the process serves requests
//   - /ready: readiness, 200 when every check passes and 503 otherwise
//   - /version: build information
package health
