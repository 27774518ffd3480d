package treelate

import "context"

// Provider is a remote translation backend. One request translates one
// piece of text; batching, retry and rate limiting are layered on top.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Manager answers translation requests from the mirrored store first and
// falls back to the remote provider on a miss, persisting anything newly
// fetched before returning it.
type Manager struct {
	mirror     *Mirror
	provider   Provider
	sourceLang string
}

// ManagerOption is a functional option for configuring the Manager.
type ManagerOption func(*Manager)

// WithSourceLang sets the source language sent to the provider.
func WithSourceLang(lang string) ManagerOption {
	return func(m *Manager) {
		m.sourceLang = lang
	}
}

// NewManager creates a Manager over the given store and provider. The
// store begins loading immediately; every operation waits for that load
// to finish before proceeding.
func NewManager(store Store, provider Provider, opts ...ManagerOption) *Manager {
	m := &Manager{
		mirror:     NewMirror(store),
		provider:   provider,
		sourceLang: "en",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TranslateText returns the translation of text into lang, serving from
// the store when possible and calling the provider otherwise. Newly
// fetched translations are persisted before they are returned; provider
// and persistence failures propagate and nothing partial is cached.
//
// An empty stored translation counts as a miss, so a provider that
// legitimately returns "" will be re-asked on every call. Two concurrent
// misses for the same (text, lang) may both reach the provider; the merge
// policy keeps the store consistent but duplicate remote calls are not
// suppressed.
func (m *Manager) TranslateText(ctx context.Context, text, lang string) (string, error) {
	v, ok, err := m.mirror.Lookup(ctx, text, lang)
	if err != nil {
		return "", err
	}
	if ok && v != "" {
		return v, nil
	}

	translated, err := m.provider.Translate(ctx, text, m.sourceLang, lang)
	if err != nil {
		return "", err
	}

	if err := m.mirror.Upsert(ctx, text, lang, translated, false); err != nil {
		return "", err
	}
	return translated, nil
}

// Override stores a user-modified translation, overwriting any existing
// value unconditionally.
func (m *Manager) Override(ctx context.Context, text, lang, value string) error {
	return m.mirror.Upsert(ctx, text, lang, value, true)
}

// Mirror exposes the underlying store mirror.
func (m *Manager) Mirror() *Mirror {
	return m.mirror
}

// SourceLang returns the configured source language.
func (m *Manager) SourceLang() string {
	return m.sourceLang
}
