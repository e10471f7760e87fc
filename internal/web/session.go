package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
)

const (
	cookieName = "ethiq_session"
	issuer     = "ethiq"
)

// respondentClaims carries one respondent's progress between requests. The
// server keeps no per-respondent state.
type respondentClaims struct {
	Identity     session.Identity  `json:"identity"`
	Answers      scoring.AnswerSet `json:"answers,omitempty"`
	StartedAt    int64             `json:"started_at"`
	EvaluationID string            `json:"evaluation_id,omitempty"`
	CompletedAt  int64             `json:"completed_at,omitempty"`
	jwt.RegisteredClaims
}

func (c *respondentClaims) submitted() bool { return c.EvaluationID != "" }

// cookieCodec signs and verifies respondent cookies with HS256.
type cookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func (c *cookieCodec) write(w http.ResponseWriter, claims *respondentClaims) error {
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl.Seconds()),
	})
	return nil
}

var errNoSession = errors.New("no respondent session")

func (c *cookieCodec) read(r *http.Request) (*respondentClaims, error) {
	ck, err := r.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return nil, errNoSession
	}
	var claims respondentClaims
	_, err = jwt.ParseWithClaims(ck.Value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoSession, err)
	}
	return &claims, nil
}

func (c *cookieCodec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		MaxAge:   -1,
	})
}
