package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndReset(t *testing.T) {
	l := New(2, time.Minute)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Error("third request should be limited")
	}
	if l.Remaining("a") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("a"))
	}
	if !l.Allow("b") {
		t.Error("keys are independent")
	}

	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset should clear the window")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 20*time.Millisecond)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request inside the window should be limited")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after the window should pass")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:5", "10.0.0.9"},
		{"remote with port", nil, "1.2.3.4:5678", "1.2.3.4"},
		{"remote without port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Amina"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	ok, reason := ll.Check(r, " amina ")
	if ok || reason == "" {
		t.Error("username limit should be case and space insensitive")
	}

	ll.ResetUser("AMINA")
	if ok, _ := ll.Check(r, "amina"); !ok {
		t.Error("ResetUser should clear the username window")
	}
}

func TestLoginLimiter_Nil(t *testing.T) {
	var ll *LoginLimiter
	if ok, _ := ll.Check(httptest.NewRequest("POST", "/login", nil), "x"); !ok {
		t.Error("nil limiter allows everything")
	}
	ll.ResetUser("x")
}
