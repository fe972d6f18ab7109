package parser

import (
	"time"
)

// Options tunes waits and extraction policy.
type Options struct {
	// PageDelay is slept after every navigation so dynamic content settles.
	PageDelay time.Duration
	// WaitTimeout bounds waits for listing cards and optional fields.
	WaitTimeout time.Duration
	// ArticleWait bounds the wait for the article container.
	ArticleWait time.Duration
	// CookieWait bounds the wait for the consent control to be clickable.
	CookieWait time.Duration
	// PollInterval is how often waits re-read the DOM.
	PollInterval time.Duration

	// StrictFields makes a missing author or category fail the article
	// instead of leaving the field absent.
	StrictFields bool
	// ReadabilityFallback extracts the body with readability when the body
	// selector matches nothing.
	ReadabilityFallback bool

	// Languages, if set, tags documents with their detected language.
	Languages LanguageDetector

	// Now stamps Document.Loaded. Defaults to time.Now.
	Now func() time.Time
}

// LanguageDetector identifies the language of a text as an ISO 639-1 code.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// DefaultOptions returns the waits the site needs in practice.
func DefaultOptions() Options {
	return Options{
		PageDelay:    2 * time.Second,
		WaitTimeout:  20 * time.Second,
		ArticleWait:  10 * time.Second,
		CookieWait:   2 * time.Second,
		PollInterval: 250 * time.Millisecond,
		Now:          time.Now,
	}
}

// withDefaults fills unset wait budgets from DefaultOptions. PageDelay may
// legitimately be zero, so it is only filled when no duration is set at all.
func (o Options) withDefaults() Options {
	d := DefaultOptions()

	if o.PageDelay == 0 && o.WaitTimeout == 0 && o.ArticleWait == 0 && o.CookieWait == 0 && o.PollInterval == 0 {
		o.PageDelay = d.PageDelay
	}
	if o.WaitTimeout == 0 {
		o.WaitTimeout = d.WaitTimeout
	}
	if o.ArticleWait == 0 {
		o.ArticleWait = d.ArticleWait
	}
	if o.CookieWait == 0 {
		o.CookieWait = d.CookieWait
	}
	if o.PollInterval == 0 {
		o.PollInterval = d.PollInterval
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
