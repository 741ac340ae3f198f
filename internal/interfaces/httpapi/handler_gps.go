package httpapi

import "net/http"

// The source dashboard ships a GPS tab that is still a placeholder page.
// The endpoint serves the same copy so the navigation contract holds.
type gpsPageDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
}

func (h *Handler) GetGPSPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGPSPage")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, gpsPageDTO{
		Title:       "Dashboard de Performance",
		Description: "Análisis de rendimiento deportivo y métricas competitivas",
		Placeholder: "Aquí irán los gráficos interactivos de rendimiento",
	})
}
