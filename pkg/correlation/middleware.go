package correlation

import "net/http"

// Middleware generates or propagates correlation IDs for HTTP requests.
// If an X-Correlation-ID header exists, it uses that value; otherwise it
// generates a new UUID v4. The identifier is added to both the response
// header and the request context, scoping it to this request only; a reused
// server goroutine never leaks an identifier into the next request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = NewID()
		}

		w.Header().Set(Header, id)

		ctx := With(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
