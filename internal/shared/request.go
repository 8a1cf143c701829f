package shared

import (
	"net/http"
	"strconv"
)

// UserIDFromRequest reads the acting user from the X-User-ID header. Session
// mechanics live outside this service; the gateway in front of it is trusted
// to set the header.
func UserIDFromRequest(r *http.Request) int64 {
	if v := r.Header.Get("X-User-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	}
	return 0
}
