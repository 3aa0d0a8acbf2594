package tenant

import (
	"net/http"
)

// ErrorHandler writes the response for a request whose store could not be resolved.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// Middleware resolves the store id and stores it in the request context.
// Requests without a valid store id are rejected through errorHandler.
func Middleware(resolver Resolver, errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				errorHandler(w, r, err)
				return
			}
			if id == "" {
				errorHandler(w, r, ErrMissingStoreID)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
