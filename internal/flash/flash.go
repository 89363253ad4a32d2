// Package flash carries one-shot categorized notices across a redirect in
// a signed cookie. A notice is shown by the next rendered page only.
package flash

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Category selects how a notice is styled
type Category string

const (
	Info    Category = "info"
	Success Category = "success"
	Warning Category = "warning"
	Danger  Category = "danger"
)

const (
	cookieName = "notices"
	lifetime   = 5 * time.Minute

	// maxNotices keeps the cookie well under the browser size limit
	maxNotices = 5
)

// Notice is a single message for the user
type Notice struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

type claims struct {
	Notices []Notice `json:"notices"`
	jwt.RegisteredClaims
}

// Flash reads and writes the notice cookie
type Flash struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// New creates a Flash signing its cookie with secret
func New(secret string, secure bool) *Flash {
	return &Flash{secret: []byte(secret), secure: secure, now: time.Now}
}

// Add queues a notice for the next rendered page. Notices already waiting
// in the request cookie are kept, up to the most recent maxNotices.
func (f *Flash) Add(w http.ResponseWriter, r *http.Request, category Category, message string) {
	notices := append(f.read(r), Notice{Category: category, Message: message})
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}

	now := f.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Notices: notices,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return
	}

	cookie := f.cookie(signed)
	cookie.MaxAge = int(lifetime.Seconds())
	http.SetCookie(w, cookie)
}

// Pop returns the pending notices and clears the cookie
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []Notice {
	if _, err := r.Cookie(cookieName); err != nil {
		return nil
	}

	cookie := f.cookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)

	return f.read(r)
}

func (f *Flash) read(r *http.Request) []Notice {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	c := &claims{}
	_, err = jwt.ParseWithClaims(cookie.Value, c, func(token *jwt.Token) (interface{}, error) {
		return f.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		return nil
	}
	return c.Notices
}

func (f *Flash) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
