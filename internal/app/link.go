package service

import (
	"net/url"
	"strings"
)

// RSVPLink builds the attendee link for an event. Every value is escaped,
// spaces as %20, so the page can read them back with decodeURIComponent.
func RSVPLink(base, eventID, title, date, time, location, pace string) string {
	params := []struct{ key, value string }{
		{"event", eventID},
		{"title", title},
		{"date", date},
		{"time", time},
		{"location", location},
		{"pace", pace},
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/rsvp.html")
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escapeComponent(p.value))
	}
	return b.String()
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
