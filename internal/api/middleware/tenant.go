package middleware

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// OrganizationHeader заголовок с идентификатором организации
const OrganizationHeader = "X-Organization-ID"

const maxOrganizationIDLength = 64

// Tenant кладёт организацию из X-Organization-ID в контекст запроса.
// Без заголовка запрос отклоняется до вызова обработчика.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(r.Header.Get(OrganizationHeader))
		if orgID == "" {
			handlers.RespondInvalidRequest(w, OrganizationHeader+" header is required")
			return
		}
		if len(orgID) > maxOrganizationIDLength {
			handlers.RespondInvalidRequest(w, OrganizationHeader+" header is too long")
			return
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithOrganization(r.Context(), orgID)))
	})
}
