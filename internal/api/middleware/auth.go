package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/velodrive/VRB-SyncService/internal/api/handlers"
)

const bearerPrefix = "Bearer "

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// BearerAuth проверяет pre-shared bearer токен эндпоинтов синхронизации
// Отклонение происходит до любого обращения к хранилищам
func BearerAuth(token string, log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				log.Warn("%s %s - missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "требуется bearer токен")
				return
			}

			presented := strings.TrimPrefix(header, bearerPrefix)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				log.Warn("%s %s - invalid bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "некорректный bearer токен")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
