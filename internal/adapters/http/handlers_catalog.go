package httpadapter

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type listProjectsResponse struct {
	Projects   []domain.ProjectRecord `json:"projects"`
	TotalCount int                    `json:"total_count"`
}

func (rt *Router) listProjects(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProjectFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	projects, err := rt.catalog.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listProjectsResponse{
		Projects:   projects,
		TotalCount: len(projects),
	})
}

func (rt *Router) exportProjects(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := rt.catalog.Export(r.Context(), &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio-projects.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
