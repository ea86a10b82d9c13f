package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/onbeventi/internal/auth"
	"github.com/mmynk/onbeventi/internal/clock"
	"github.com/mmynk/onbeventi/internal/ics"
	"github.com/mmynk/onbeventi/internal/middleware"
	"github.com/mmynk/onbeventi/internal/models"
)

// CalendarPath serves the iCalendar feed.
const CalendarPath = "/calendar.ics"

// EventLister is the read side of the repository.
type EventLister interface {
	List(ctx context.Context) []models.Event
}

// CalendarHandler serves every event as text/calendar. When jwtManager is
// set, a token is required, either as a bearer header or as the "token"
// query parameter since calendar apps cannot send headers.
func CalendarHandler(events EventLister, loc *time.Location, clk clock.Clock, jwtManager *auth.JWTManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if jwtManager != nil {
			header := r.Header.Get("Authorization")
			if header == "" && r.URL.Query().Get("token") != "" {
				header = "Bearer " + r.URL.Query().Get("token")
			}
			if _, err := middleware.SubjectFromBearer(jwtManager, header); err != nil {
				slog.WarnContext(r.Context(), "Calendar request rejected", "error", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		body := ics.Export(events.List(r.Context()), loc, clk.Now())
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `inline; filename="onbeventi.ics"`)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write([]byte(body)); err != nil {
			slog.WarnContext(r.Context(), "Failed to write calendar", "error", err)
		}
	})
}
