package treelate

// TranslationStore maps a target language code to a mapping from source
// text to translated text. Source text is used verbatim as a key; it is
// never normalized or hashed, so the on-disk document stays human-editable.
//
// Invariant: within one language bucket, each source text maps to at most
// one translation.
type TranslationStore map[string]map[string]string

// Lookup returns the stored translation for (lang, text) and whether one
// exists.
func (s TranslationStore) Lookup(lang, text string) (string, bool) {
	bucket, ok := s[lang]
	if !ok {
		return "", false
	}
	v, ok := bucket[text]
	return v, ok
}

// Set stores a translation, creating the language bucket if needed.
func (s TranslationStore) Set(lang, text, value string) {
	bucket, ok := s[lang]
	if !ok {
		bucket = make(map[string]string)
		s[lang] = bucket
	}
	bucket[text] = value
}

// Clone returns a deep copy of the store.
func (s TranslationStore) Clone() TranslationStore {
	out := make(TranslationStore, len(s))
	for lang, bucket := range s {
		copied := make(map[string]string, len(bucket))
		for text, v := range bucket {
			copied[text] = v
		}
		out[lang] = copied
	}
	return out
}

// Len returns the total number of translations across all languages.
func (s TranslationStore) Len() int {
	n := 0
	for _, bucket := range s {
		n += len(bucket)
	}
	return n
}

// MergeStores combines the on-disk store with the in-memory one. Each
// language bucket is merged as a flat union: entries present in memory win
// on conflicting keys, while keys present only on disk (edits made directly
// to storage since the last load) are preserved. This is a two-level
// shallow merge, not a recursive one.
func MergeStores(disk, mem TranslationStore) TranslationStore {
	merged := disk.Clone()
	for lang, bucket := range mem {
		for text, v := range bucket {
			merged.Set(lang, text, v)
		}
	}
	return merged
}

// Result is the outcome of a tree translation.
type Result struct {
	Root            Node // Rebuilt tree with translated text substituted
	TotalTexts      int  // Translatable leaves collected, duplicates included
	TranslatedCount int  // Unique texts resolved through the translation service
	CachedCount     int  // Unique texts served from the session cache
}
