package middleware

import (
	"net/http"
	"strconv"
	"time"

	"alexandread/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics считает запросы с меткой шаблона маршрута (/api/books/{id}), а не сырого пути.
// Подключается через router.Use: до матчинга mux.CurrentRoute пуст.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := wrapStatus(w)
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
