package httpkit

import (
	"context"
	"errors"
	"time"

	"listing_portal_backend/platform/config"
	"listing_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ContextSessionIDKey is the gin context key for the visitor session ID.
	ContextSessionIDKey = "sessionID"
	// ContextSessionNewKey is the gin context key set when the session was issued by this request.
	ContextSessionNewKey = "sessionNew"

	sessionTokenType = "visitor"
)

var errInvalidSession = errors.New("invalid session")

// SessionIssuer signs and verifies visitor session tokens.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer creates an issuer from session configuration.
func NewSessionIssuer(cfg config.SessionConfig) *SessionIssuer {
	return &SessionIssuer{
		secret: []byte(cfg.GetSessionSecret()),
		ttl:    cfg.GetSessionTTL(),
		now:    time.Now,
	}
}

// Issue returns a signed token for sessionID that expires after the configured TTL.
func (s *SessionIssuer) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"typ": sessionTokenType,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies rawToken and returns its session ID and expiry.
func (s *SessionIssuer) Parse(rawToken string) (string, time.Time, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", time.Time{}, errInvalidSession
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errInvalidSession
	}
	if tokenType, _ := claims["typ"].(string); tokenType != sessionTokenType {
		return "", time.Time{}, errInvalidSession
	}

	sessionID, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", time.Time{}, errInvalidSession
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, errInvalidSession
	}
	return sessionID, exp.Time, nil
}

// VisitorSession returns middleware that attaches an anonymous visitor session to every request.
// A missing, expired or tampered cookie starts a new session. Cookies past half their
// lifetime are re-issued so active visitors keep their session.
func VisitorSession(issuer *SessionIssuer, cfg config.SessionConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieName := cfg.GetSessionCookieName()
		sessionID := ""
		isNew := false
		refresh := false

		if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
			if sid, exp, err := issuer.Parse(raw); err == nil {
				sessionID = sid
				refresh = exp.Sub(issuer.now()) < cfg.GetSessionTTL()/2
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			isNew = true
		}

		if isNew || refresh {
			token, err := issuer.Issue(sessionID)
			if err != nil {
				if log != nil {
					log.Error("failed to sign visitor session", "error", err)
				}
				abortInternal(c)
				return
			}
			c.SetSameSite(cfg.GetSessionCookieSameSite())
			c.SetCookie(
				cookieName,
				token,
				int(cfg.GetSessionTTL().Seconds()),
				"/",
				cfg.GetSessionCookieDomain(),
				cfg.GetSessionCookieSecure(),
				true,
			)
		}

		c.Set(ContextSessionIDKey, sessionID)
		c.Set(ContextSessionNewKey, isNew)
		ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
