package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderAdminKey = "X-Admin-Key"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidAdmin  = "неверный ключ администратора"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userNameKey contextKey = "userName"
)

// Auth идентифицирует клиента по X-User-ID (внешний LINE id).
// Проверка подлинности заголовка выполняется снаружи сервиса.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		if name := strings.TrimSpace(r.Header.Get(HeaderUserName)); name != "" {
			ctx = context.WithValue(ctx, userNameKey, name)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID внешний идентификатор клиента из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserName отображаемое имя клиента, если передано
func GetUserName(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

// WithUserID кладёт идентификатор клиента в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// AdminAuth пропускает запросы персонала с верным X-Admin-Key.
// Пустой ключ в конфигурации закрывает все маршруты персонала.
// X-User-Name, если передан, записывается как автор изменений расписания.
func AdminAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(HeaderAdminKey)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidAdmin)
				return
			}

			ctx := r.Context()
			if name := strings.TrimSpace(r.Header.Get(HeaderUserName)); name != "" {
				ctx = context.WithValue(ctx, userNameKey, name)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
