// Package device summarises a User-Agent header for login audit logs.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Info is what login logs record about the client software.
type Info struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// Parse extracts browser, OS and platform hints. An empty header yields the zero Info.
func Parse(userAgent string) Info {
	if strings.TrimSpace(userAgent) == "" {
		return Info{}
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	return Info{
		Browser: strings.TrimSpace(browser),
		OS:      strings.TrimSpace(os),
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}

// DisplayName renders "Browser on OS", e.g. "Chrome on Intel Mac OS X 10_15_7".
func (i Info) DisplayName() string {
	if i == (Info{}) {
		return "Unknown Device"
	}
	browser, os := i.Browser, i.OS
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}

// LogAttrs returns slog key-value pairs.
func (i Info) LogAttrs() []any {
	return []any{"device", i.DisplayName(), "mobile", i.Mobile, "bot", i.Bot}
}
