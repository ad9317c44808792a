package sentry

import (
	"net/url"
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestScrubEvent_Request(t *testing.T) {
	event := &sentry.Event{
		Request: &sentry.Request{
			Headers: map[string]string{
				"Authorization": "Bearer secret-token",
				"cookie":        "a=b",
				"Content-Type":  "application/json",
			},
			Data:        `{"email":"dj@example.com","password":"hunter22"}`,
			Cookies:     "a=b",
			QueryString: "token=eyJhbGciOi&clientId=fan-1",
		},
	}

	result := ScrubEvent(event, nil)
	req := result.Request

	if req.Headers["Authorization"] != filtered {
		t.Errorf("Authorization = %q, want %q", req.Headers["Authorization"], filtered)
	}
	if req.Headers["cookie"] != filtered {
		t.Errorf("cookie = %q, want %q", req.Headers["cookie"], filtered)
	}
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want preserved", req.Headers["Content-Type"])
	}
	if req.Data != "" || req.Cookies != "" {
		t.Errorf("expected body and cookies stripped, got %q %q", req.Data, req.Cookies)
	}

	q, err := url.ParseQuery(req.QueryString)
	if err != nil {
		t.Fatal(err)
	}
	if q.Get("token") != filtered {
		t.Errorf("token query = %q, want %q", q.Get("token"), filtered)
	}
	if q.Get("clientId") != "fan-1" {
		t.Errorf("clientId query = %q, want preserved", q.Get("clientId"))
	}
}

func TestScrubEvent_TagsExtraAndUser(t *testing.T) {
	event := &sentry.Event{
		Tags:  map[string]string{"environment": "production", "Token": "x"},
		Extra: map[string]interface{}{"voterId": "fan-1", "dancefloor_id": "df-1"},
		User:  sentry.User{ID: "dj-1", Email: "dj@example.com"},
	}

	result := ScrubEvent(event, nil)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"environment tag", result.Tags["environment"], "production"},
		{"token tag", result.Tags["Token"], filtered},
		{"voter extra", result.Extra["voterId"], filtered},
		{"dancefloor extra", result.Extra["dancefloor_id"], "df-1"},
		{"user id", result.User.ID, "dj-1"},
		{"user email", result.User.Email, filtered},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestScrubBreadcrumbs(t *testing.T) {
	event := &sentry.Event{
		Breadcrumbs: []*sentry.Breadcrumb{
			{Data: map[string]interface{}{"url": "/api/auth/login", "password": "hunter22"}},
		},
	}

	result := ScrubEvent(event, nil)
	if result.Breadcrumbs[0].Data["url"] != "/api/auth/login" {
		t.Errorf("url = %v, want preserved", result.Breadcrumbs[0].Data["url"])
	}
	if result.Breadcrumbs[0].Data["password"] != filtered {
		t.Errorf("password = %v, want %q", result.Breadcrumbs[0].Data["password"], filtered)
	}

	b := ScrubBreadcrumb(&sentry.Breadcrumb{Data: map[string]interface{}{"jwt": "x"}}, nil)
	if b.Data["jwt"] != filtered {
		t.Errorf("jwt = %v, want %q", b.Data["jwt"], filtered)
	}
}

func TestScrubEvent_Empty(t *testing.T) {
	if ScrubEvent(&sentry.Event{}, nil) == nil {
		t.Error("expected non-nil event")
	}
}

func TestInitWithoutDSN(t *testing.T) {
	if err := Init("", "test"); err != nil {
		t.Errorf("Init(\"\") error = %v", err)
	}
}
