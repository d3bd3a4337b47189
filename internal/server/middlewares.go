package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"agritrack/internal/model"
	"agritrack/internal/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const sessionCookieName = "session"

type userContextKey struct{}
type userContext struct {
	sess  session.Session
	token string
}

type traceContextKey struct{}
type traceContext struct {
	traceID string
}

func setUserContext(ctx context.Context, uc userContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}
func getUserContext(ctx context.Context) (userContext, error) {
	uc, ok := ctx.Value(userContextKey{}).(userContext)
	if !ok {
		return uc, errors.New("failed to get UserContext")
	}
	return uc, nil
}

func setTraceContext(ctx context.Context, tc traceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}
func getTraceContext(ctx context.Context) traceContext {
	tc, _ := ctx.Value(traceContextKey{}).(traceContext)
	return tc
}

func (s Server) maxBytesMw(next http.Handler) http.Handler {
	return http.MaxBytesHandler(next, 3000)
}

func (s Server) loggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := uuid.NewString()
		s.Logger.Debugf("loggingMw: New incoming request %s %s from %s, UA: %s, Host: %#v, TraceID: %s",
			r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent(), r.Host, traceID)

		defer func() {
			if re := recover(); re != nil {
				s.Logger.Errorf("loggingMw: Handler crashed, err: %v, TraceID: %s, stack trace:\n%s", re, traceID, debug.Stack())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		tc := traceContext{traceID: traceID}
		next.ServeHTTP(w, r.WithContext(setTraceContext(r.Context(), tc)))

		s.Logger.Debugf("loggingMw: Incoming request %s %s took %dms, TraceID: %s",
			r.Method, r.URL.Path, time.Since(start).Milliseconds(), traceID)
	})
}

// authMw resolves the session cookie to an identity. Anything without a
// live session is turned away with a redirect hint to the login page
// before any handler logic runs.
func (s Server) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			s.Logger.Debugf("authMw: No session cookie, TraceID: %s", tid)
			s.writeJsonResponse(w, errorResponse{Error: "Not logged in", Redirect: "/login"}, http.StatusUnauthorized)
			return
		}

		sess, err := s.Sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				s.Logger.Debugf("authMw: Session not found or expired, TraceID: %s", tid)
			} else {
				s.Logger.Errorf("authMw: Error getting Session, err: %v, TraceID: %s", err, tid)
			}
			s.clearSessionCookie(w)
			s.writeJsonResponse(w, errorResponse{Error: "Not logged in", Redirect: "/login"}, http.StatusUnauthorized)
			return
		}

		s.Logger.Debugf("authMw: UserID: %s, Role: %s, TraceID: %s", sess.UserID, sess.Role, tid)
		uc := userContext{sess: sess, token: cookie.Value}
		next.ServeHTTP(w, r.WithContext(setUserContext(r.Context(), uc)))
	})
}

// adminMw gates the admin directory. It runs after authMw and rejects
// non-admin roles before any query is executed.
func (s Server) adminMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("adminMw: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if uc.sess.Role != model.RoleAdmin {
			s.Logger.Debugf("adminMw: UserID: %s with role %s denied admin access, TraceID: %s",
				uc.sess.UserID, uc.sess.Role, getTraceContext(r.Context()).traceID)
			s.writeErrorResponse(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
