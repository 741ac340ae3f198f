package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/logout", handler.Logout)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))

	mux.Handle("GET /v1/performance/players", RequireAuth(verifier, http.HandlerFunc(handler.GetPerformancePlayers)))
	mux.Handle("GET /v1/performance/facets", RequireAuth(verifier, http.HandlerFunc(handler.GetPerformanceFacets)))
	mux.Handle("GET /v1/performance/report", RequireAuth(verifier, http.HandlerFunc(handler.GetPerformanceReport)))

	mux.Handle("GET /v1/contracts", RequireAuth(verifier, http.HandlerFunc(handler.GetContracts)))
	mux.Handle("GET /v1/contracts/facets", RequireAuth(verifier, http.HandlerFunc(handler.GetContractFacets)))
	mux.Handle("GET /v1/contracts/expirations", RequireAuth(verifier, http.HandlerFunc(handler.GetContractExpirations)))

	mux.Handle("GET /v1/gps", RequireAuth(verifier, http.HandlerFunc(handler.GetGPSPage)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/dataset-refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDatasetRefreshJob)))
}
