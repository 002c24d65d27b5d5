package providers

import (
	"net/http"
	"steamledger/internal/structures"
	"time"
)

// unmatchedEndpoint labels requests for paths no route serves, so stray
// URLs do not add metric series.
const unmatchedEndpoint = "unmatched"

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware records request count and latency per registered route
// and logs every request at debug level.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = unmatchedEndpoint
		}
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
		logger.Debugf(TypeHTTP, "%s %s %d %dB %s", r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration)
	})
}
