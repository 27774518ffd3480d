package treelate

// SessionKey builds the session cache key for a (text, language) pair.
// The source text participates verbatim; keys are not hashed so a cache
// dump stays readable.
func SessionKey(text, targetLang string) string {
	return targetLang + ":" + text
}
