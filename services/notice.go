package services

import (
	"golang.org/x/text/language"
)

type NoticeCode string

const (
	NoticeAuthRequired NoticeCode = "auth_required"
	NoticeLoginFailed  NoticeCode = "login_failed"
	NoticeSignedIn     NoticeCode = "signed_in"
	NoticeSignedOut    NoticeCode = "signed_out"
)

// Notice is a user-facing message. It never blocks the response it rides on.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Level   string     `json:"level"` // "warning" | "info"
	Message string     `json:"message"`
}

var noticeLevels = map[NoticeCode]string{
	NoticeAuthRequired: "warning",
	NoticeLoginFailed:  "warning",
	NoticeSignedIn:     "info",
	NoticeSignedOut:    "info",
}

var noticeMessages = map[language.Tag]map[NoticeCode]string{
	language.Swedish: {
		NoticeAuthRequired: "Åtkomst nekad. Du måste vara inloggad för att se favoriter.",
		NoticeLoginFailed:  "Fel e-postadress eller lösenord.",
		NoticeSignedIn:     "Du är nu inloggad.",
		NoticeSignedOut:    "Du är nu utloggad.",
	},
	language.English: {
		NoticeAuthRequired: "Access denied. You must be signed in to see favorites.",
		NoticeLoginFailed:  "Wrong email or password.",
		NoticeSignedIn:     "You are now signed in.",
		NoticeSignedOut:    "You are now signed out.",
	},
}

// NoticeCatalog localizes notices against an Accept-Language header.
type NoticeCatalog struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewNoticeCatalog builds a catalog whose fallback is defaultLocale
// (Swedish when unknown).
func NewNoticeCatalog(defaultLocale string) *NoticeCatalog {
	def := language.Swedish
	if t, err := language.Parse(defaultLocale); err == nil {
		if _, idx, conf := language.NewMatcher([]language.Tag{language.Swedish, language.English}).Match(t); conf != language.No {
			def = []language.Tag{language.Swedish, language.English}[idx]
		}
	}
	tags := []language.Tag{def}
	for t := range noticeMessages {
		if t != def {
			tags = append(tags, t)
		}
	}
	return &NoticeCatalog{tags: tags, matcher: language.NewMatcher(tags)}
}

// Known reports whether code has a catalog entry.
func (c *NoticeCatalog) Known(code NoticeCode) bool {
	_, ok := noticeLevels[code]
	return ok
}

func (c *NoticeCatalog) Localize(code NoticeCode, acceptLanguage string) Notice {
	tag := c.tags[0]
	if prefs, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(prefs) > 0 {
		if _, idx, conf := c.matcher.Match(prefs...); conf != language.No {
			tag = c.tags[idx]
		}
	}
	msg, ok := noticeMessages[tag][code]
	if !ok {
		msg = string(code)
	}
	level := noticeLevels[code]
	if level == "" {
		level = "info"
	}
	return Notice{Code: code, Level: level, Message: msg}
}
