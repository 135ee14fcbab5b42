package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestEncodeDecode(t *testing.T) {
	c := New([]byte("0123456789abcdef"), "lf_session", false, time.Hour)

	v := c.Encode("sess-1")
	id, err := c.Decode(v)
	if err != nil || id != "sess-1" {
		t.Fatalf("Decode(%q) = %q, %v", v, id, err)
	}

	other := New([]byte("another-secret-123"), "lf_session", false, time.Hour)
	if _, err := other.Decode(v); err != ErrInvalid {
		t.Fatalf("foreign signature accepted: %v", err)
	}
	for _, bad := range []string{"", "sess-1", ".sig", "sess-1.sig.extra", "sess-2." + strings.SplitN(v, ".", 2)[1]} {
		if _, err := c.Decode(bad); err != ErrInvalid {
			t.Errorf("Decode(%q) err = %v", bad, err)
		}
	}
}

func TestGetIDClearsTamperedCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New([]byte("0123456789abcdef"), "lf_session", false, time.Hour)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx.Request.AddCookie(&http.Cookie{Name: "lf_session", Value: "sess-1.forged"})

	if _, ok := c.GetID(ctx); ok {
		t.Fatal("tampered cookie accepted")
	}
	if got := w.Header().Get("Set-Cookie"); !strings.Contains(got, "lf_session=;") || !strings.Contains(got, "Max-Age=0") {
		t.Fatalf("cookie not cleared: %q", got)
	}
}

func TestSetAndGetID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New([]byte("0123456789abcdef"), "lf_session", true, time.Hour)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	c.Set(ctx, "sess-9")
	res := w.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly || !cookies[0].Secure || cookies[0].MaxAge != 3600 {
		t.Fatalf("cookie = %+v", cookies)
	}

	ctx2, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx2.Request.AddCookie(cookies[0])
	if id, ok := c.GetID(ctx2); !ok || id != "sess-9" {
		t.Fatalf("GetID() = %q, %v", id, ok)
	}
}
