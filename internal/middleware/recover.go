package middleware

import (
	"net/http"
	"runtime/debug"

	"workspace-access/internal/platform/logger"
)

// Recover convierte un panic en 500 y lo loguea con el logger del request.
// http.ErrAbortHandler se re-lanza: es la forma de net/http de cortar la respuesta.
func Recover(base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context(), base).Error("panic recovered", map[string]any{
					"panic": rec,
					"stack": string(debug.Stack()),
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
