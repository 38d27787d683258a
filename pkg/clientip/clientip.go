package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// headers are checked in order before RemoteAddr.
var headers = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client address of r, or "" when none is valid.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For is "client, proxy1, proxy2"
		if first, _, ok := strings.Cut(v, ","); ok {
			v = first
		}
		if ip := parse(v); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return parse(host)
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || addr.IsUnspecified() {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
