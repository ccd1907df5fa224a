package auth

import (
	"crypto/subtle"
	"net/http"
)

// CronSecretValid reports whether the request carries the shared scheduler
// secret as a `secret` query parameter. Billing endpoints accept this in
// place of an admin session so cron jobs can invoke them.
func CronSecretValid(r *http.Request, secret string) bool {
	if r == nil || secret == "" {
		return false
	}
	provided := r.URL.Query().Get("secret")
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}
