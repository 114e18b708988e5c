// Package clientip resolves the originating client's IP address behind
// reverse proxies. The audit trail records the resolved address on every
// isolation violation, so resolution must prefer proxy-provided headers over
// the TCP peer address.
//
// The resolution order is CF-Connecting-IP, DO-Connecting-IP,
// X-Forwarded-For (first valid entry), X-Real-IP, then RemoteAddr.
//
// Middleware stores the resolved address on the request context so the audit
// logger's IP extractor can read it without re-resolving per event.
package clientip
