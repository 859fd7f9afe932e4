package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/techxplorers/portfolio/internal/application"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ServiceResponse is the JSON representation of a catalog service.
type ServiceResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	TitleLines  []string `json:"title_lines"`
	Description string   `json:"description"`
	Price       string   `json:"price,omitempty"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
	Icon        string   `json:"icon"`
	Highlight   bool     `json:"highlight"`
	ImagePath   string   `json:"image_path,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
// Feed is one of "live", "connecting", "degraded" or "disabled".
type HealthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	Feed      string `json:"feed"`
	FeedError string `json:"feed_error,omitempty"`
	Services  int    `json:"services"`
	Time      string `json:"time"`
}

// toServiceResponse converts a rendered card to its JSON representation.
// Icon is the resolved icon name, so unknown names report the fallback.
func toServiceResponse(card application.Card) ServiceResponse {
	r := card.Record

	lines := make([]string, 0, len(card.Segments))
	for _, seg := range card.Segments {
		if !seg.Break {
			lines = append(lines, seg.Text)
		}
	}

	features := r.Features
	if features == nil {
		features = []string{}
	}

	return ServiceResponse{
		ID:          r.ID,
		Title:       r.Title,
		TitleLines:  lines,
		Description: r.Description,
		Price:       r.Price,
		Category:    string(r.Category),
		Features:    features,
		Icon:        card.Icon.Name(),
		Highlight:   r.Highlight,
		ImagePath:   r.ImagePath,
		ImageURL:    card.ImageURL,
	}
}
