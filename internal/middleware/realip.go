package middleware

import (
	"net/http"
	"net/netip"
	"strings"
)

// NewRealIPMiddleware は信頼済みプロキシを経由したリクエストに限り、
// X-Forwarded-ForからクライアントIPを求めてRemoteAddrに設定するミドルウェアを返す。
// 直接の送信元がtrustedに含まれない場合、転送ヘッダーは無視してRemoteAddrをそのまま使う。
// trustedが空の場合は常に無視する。
func NewRealIPMiddleware(trusted []netip.Prefix) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip, ok := forwardedClientIP(r, trusted); ok {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedClientIP はX-Forwarded-Forを右から辿り、最初に現れる信頼済みでないアドレスを返す。
// 左側はクライアントが自由に書けるため、信頼済みプロキシが付け足した右端側だけを使う。
// 全ホップが信頼済みの場合は最も左の解釈できたアドレスを返す。
func forwardedClientIP(r *http.Request, trusted []netip.Prefix) (string, bool) {
	if len(trusted) == 0 {
		return "", false
	}
	peer, err := netip.ParseAddr(ClientIP(r))
	if err != nil || !isTrustedAddr(peer.Unmap(), trusted) {
		return "", false
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}

	last := ""
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		addr = addr.Unmap()
		if !isTrustedAddr(addr, trusted) {
			return addr.String(), true
		}
		last = addr.String()
	}
	if last == "" {
		return "", false
	}
	return last, true
}

func isTrustedAddr(addr netip.Addr, trusted []netip.Prefix) bool {
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
