package config

import (
	"log"
	"time"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustTTLOrder aborts startup when the refresh lifetime does not strictly
// exceed the access lifetime. Misordered TTLs would make refresh tokens
// useless, so this fails before the server accepts a single request.
func MustTTLOrder(access, refresh time.Duration) {
	if access <= 0 || refresh <= 0 {
		log.Fatalf("token TTLs must be positive (access=%s refresh=%s)", access, refresh)
	}
	if refresh <= access {
		log.Fatalf("refresh token TTL must exceed access token TTL (access=%s refresh=%s)", access, refresh)
	}
}
