package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/facilitykit/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	newReq := func(remoteAddr string, headers map[string]string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr
		for k, v := range headers {
			r.Header.Set(k, v)
		}
		return r
	}

	cases := []struct {
		name    string
		request *http.Request
		want    string
	}{
		{
			name:    "remote addr fallback",
			request: newReq("203.0.113.5:4433", nil),
			want:    "203.0.113.5",
		},
		{
			name:    "cloudflare header wins",
			request: newReq("10.0.0.1:80", map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Real-IP": "192.0.2.1"}),
			want:    "198.51.100.7",
		},
		{
			name:    "do header before forwarded",
			request: newReq("10.0.0.1:80", map[string]string{"DO-Connecting-IP": "198.51.100.8", "X-Forwarded-For": "192.0.2.1"}),
			want:    "198.51.100.8",
		},
		{
			name:    "forwarded first valid entry",
			request: newReq("10.0.0.1:80", map[string]string{"X-Forwarded-For": "garbage, 192.0.2.44, 10.0.0.2"}),
			want:    "192.0.2.44",
		},
		{
			name:    "real ip header",
			request: newReq("10.0.0.1:80", map[string]string{"X-Real-IP": "192.0.2.9"}),
			want:    "192.0.2.9",
		},
		{
			name:    "invalid header falls through",
			request: newReq("203.0.113.5:4433", map[string]string{"CF-Connecting-IP": "not-an-ip"}),
			want:    "203.0.113.5",
		},
		{
			name:    "ipv6 normalized",
			request: newReq("10.0.0.1:80", map[string]string{"X-Real-IP": "2001:0db8:0000:0000:0000:0000:0000:0001"}),
			want:    "2001:db8::1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, clientip.GetIP(tc.request))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	handler := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.GetIPFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:4433"
	req.Header.Set("X-Real-IP", "192.0.2.9")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.9", got)
}
