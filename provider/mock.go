package provider

import (
	"context"
	"fmt"
)

// MockProvider is a mock translation provider for testing.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // If set, every call fails with this error
	CallCount    int               // Number of times Translate was called
	LastText     string            // Last text received
	LastLang     string            // Last target language received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                "Hola",
			"World":                "Mundo",
			"Hello World":          "Hola Mundo",
			"Welcome to our site.": "Bienvenido a nuestro sitio.",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	m.CallCount++
	m.LastText = text
	m.LastLang = targetLang

	if m.Err != nil {
		return "", m.Err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	// Return bracketed text for unknown translations
	return fmt.Sprintf("[%s]", text), nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastText = ""
	m.LastLang = ""
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
