package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/stockfolio/internal/models"
)

func TestFlash_RoundTripAndClear(t *testing.T) {
	msgs := []models.Message{
		{Level: models.LevelSuccess, Text: "Successfully updated prices for 2 stock(s)."},
		{Level: models.LevelWarning, Text: "API limit likely reached while fetching TSLA. Please try again later."},
	}

	rr := httptest.NewRecorder()
	setFlash(rr, msgs)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != flashCookieName {
		t.Fatalf("expected one %s cookie, got %v", flashCookieName, cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	got := popFlash(rr, req)

	if len(got) != 2 || got[1].Level != models.LevelWarning || got[0].Text != msgs[0].Text {
		t.Errorf("popFlash = %+v", got)
	}
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cleared)
	}
}

func TestFlash_NoCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	if got := popFlash(rr, httptest.NewRequest(http.MethodGet, "/", nil)); got != nil {
		t.Errorf("popFlash = %+v, want nil", got)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("no cookie should be set when none was sent")
	}
}

func TestFlash_MalformedCookieDiscarded(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%not-base64"})
	rr := httptest.NewRecorder()

	if got := popFlash(rr, req); got != nil {
		t.Errorf("popFlash = %+v, want nil", got)
	}
	if len(rr.Result().Cookies()) != 1 {
		t.Error("malformed cookie should still be expired")
	}
}

func TestSetFlash_EmptyIsNoop(t *testing.T) {
	rr := httptest.NewRecorder()
	setFlash(rr, nil)
	if len(rr.Result().Cookies()) != 0 {
		t.Error("setFlash(nil) must not set a cookie")
	}
}

func TestSetFlash_ManyThrottledSymbolsFitsCookie(t *testing.T) {
	summary := &models.RefreshSummary{Instruments: 41, Updated: 1}
	for i := 0; i < 40; i++ {
		summary.Failures = append(summary.Failures, models.RefreshFailure{
			Symbol: fmt.Sprintf("LONGSYMBOL%02d", i),
			Kind:   models.FetchThrottled,
		})
	}
	summary.Failed = len(summary.Failures)

	rr := httptest.NewRecorder()
	setFlash(rr, summary.Messages())

	header := rr.Header().Get("Set-Cookie")
	if header == "" {
		t.Fatal("expected a flash cookie")
	}
	if len(header) > 4096 {
		t.Errorf("Set-Cookie is %d bytes, browsers drop cookies over 4096", len(header))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rr.Result().Cookies()[0])
	got := popFlash(httptest.NewRecorder(), req)
	if len(got) != 3 {
		t.Fatalf("popFlash returned %d messages, want 3: %+v", len(got), got)
	}
	if got[1].Level != models.LevelWarning {
		t.Errorf("second message level = %q, want warning", got[1].Level)
	}
}

func TestSetFlash_OversizedMessagesAreBounded(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	var msgs []models.Message
	for i := 0; i < 20; i++ {
		msgs = append(msgs, models.Message{Level: models.LevelError, Text: string(long)})
	}

	rr := httptest.NewRecorder()
	setFlash(rr, msgs)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if n := len(rr.Header().Get("Set-Cookie")); n > 4096 {
		t.Errorf("Set-Cookie is %d bytes", n)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	got := popFlash(httptest.NewRecorder(), req)
	if len(got) == 0 {
		t.Fatal("at least the first message must survive")
	}
	if len(got[0].Text) != maxFlashTextRunes {
		t.Errorf("text length = %d, want %d", len(got[0].Text), maxFlashTextRunes)
	}
}
