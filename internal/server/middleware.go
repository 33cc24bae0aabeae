package server

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/auth"
	"github.com/llehouerou/wavecast/internal/catalog"
)

type claimsKey struct{}

// ClaimsFrom returns the verified token claims of the request, or nil for
// anonymous requests.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// authenticate verifies bearer tokens against secret. A request carrying
// a bad token is rejected with 401. Without a secret tokens are ignored.
func authenticate(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}
			claims, err := auth.Verify(secret, token)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// requireAccountForPremium refuses anonymous downloads of files under the
// premium directory. Free accounts still get the whole file: the preview
// cut-off is applied by the client. Without a secret nothing is checked.
func requireAccountForPremium(secret string, next http.Handler) http.Handler {
	if secret == "" {
		return next
	}
	premium := "/" + catalog.PremiumDir + "/"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(path.Clean("/"+r.URL.Path)+"/", premium) && ClaimsFrom(r.Context()) == nil {
			respondWithError(w, http.StatusUnauthorized, "sign in to stream premium songs")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
