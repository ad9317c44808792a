// Package sentry wires error reporting and removes credentials, emails, and
// voter identities from events before they leave the process.
package sentry

import (
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const filtered = "[Filtered]"

// sensitiveHeaders are compared case-insensitively.
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

// sensitiveKeys are lower-cased field names that may appear in tags,
// extra data, breadcrumb data, or query strings.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"passwordhash":  true,
	"token":         true,
	"jwt":           true,
	"secret":        true,
	"email":         true,
	"voterid":       true,
	"authorization": true,
	"cookie":        true,
}

func isSensitive(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// Init configures the global Sentry client. It is a no-op when dsn is empty.
func Init(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:                   dsn,
		Environment:           environment,
		AttachStacktrace:      true,
		BeforeSend:            ScrubEvent,
		BeforeSendTransaction: ScrubEvent,
		BeforeBreadcrumb:      ScrubBreadcrumb,
	})
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// ScrubEvent redacts sensitive headers and query parameters, drops request
// bodies and cookies, and scrubs tags, extra data, and breadcrumbs.
func ScrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if req := event.Request; req != nil {
		for header := range req.Headers {
			if sensitiveHeaders[strings.ToLower(header)] {
				req.Headers[header] = filtered
			}
		}
		// bodies carry passwords and voter ids
		req.Data = ""
		req.Cookies = ""
		req.QueryString = scrubQuery(req.QueryString)
	}

	for key := range event.Tags {
		if isSensitive(key) {
			event.Tags[key] = filtered
		}
	}
	for key := range event.Extra {
		if isSensitive(key) {
			event.Extra[key] = filtered
		}
	}
	if event.User.Email != "" {
		event.User.Email = filtered
	}

	for _, b := range event.Breadcrumbs {
		scrubData(b.Data)
	}

	return event
}

// ScrubBreadcrumb scrubs a breadcrumb as it is recorded.
func ScrubBreadcrumb(b *sentry.Breadcrumb, _ *sentry.BreadcrumbHint) *sentry.Breadcrumb {
	scrubData(b.Data)
	return b
}

func scrubData(data map[string]interface{}) {
	for key := range data {
		if isSensitive(key) {
			data[key] = filtered
		}
	}
}

// scrubQuery filters sensitive parameters, such as the socket ?token=.
// Unparseable query strings are dropped.
func scrubQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	for key := range values {
		if isSensitive(key) {
			values[key] = []string{filtered}
		}
	}
	return values.Encode()
}
