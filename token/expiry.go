package token

import "time"

// DefaultExpiryBuffer is the number of seconds before expiry at which a
// token is already treated as expired, so that it is refreshed early
const DefaultExpiryBuffer int64 = 300

// now is replaced in tests
var now = time.Now

// Expired reports whether a token expiring at the unix time expiresAt
// should be treated as expired. A nil expiresAt is always expired. The
// token is expired once the current time reaches expiresAt less
// bufferSeconds.
func Expired(expiresAt *int64, bufferSeconds int64) bool {
	if expiresAt == nil {
		return true
	}
	return now().Unix() >= *expiresAt-bufferSeconds
}

// ExpiredTime is Expired for a time.Time; the zero time is always expired
func ExpiredTime(expiresAt time.Time, bufferSeconds int64) bool {
	if expiresAt.IsZero() {
		return true
	}
	at := expiresAt.Unix()
	return Expired(&at, bufferSeconds)
}
