package treelate

import "testing"

func TestTranslationStore_LookupSet(t *testing.T) {
	s := TranslationStore{}

	if _, ok := s.Lookup("es", "Hello"); ok {
		t.Error("Lookup should miss on an empty store")
	}

	s.Set("es", "Hello", "Hola")
	if v, ok := s.Lookup("es", "Hello"); !ok || v != "Hola" {
		t.Errorf("Lookup = %q, %v; want Hola, true", v, ok)
	}

	// Empty values are stored and looked up like any other.
	s.Set("es", "Blank", "")
	if v, ok := s.Lookup("es", "Blank"); !ok || v != "" {
		t.Errorf("Lookup = %q, %v; want empty, true", v, ok)
	}
}

func TestTranslationStore_Clone(t *testing.T) {
	s := TranslationStore{"es": {"Hello": "Hola"}}
	c := s.Clone()

	c.Set("es", "Hello", "mutated")
	c.Set("fr", "Hello", "Bonjour")

	if v, _ := s.Lookup("es", "Hello"); v != "Hola" {
		t.Errorf("original mutated through clone: %q", v)
	}
	if _, ok := s.Lookup("fr", "Hello"); ok {
		t.Error("new language leaked into original")
	}
}

func TestTranslationStore_Len(t *testing.T) {
	s := TranslationStore{
		"es": {"Hello": "Hola", "World": "Mundo"},
		"fr": {"Hello": "Bonjour"},
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestMergeStores(t *testing.T) {
	disk := TranslationStore{
		"es": {"Hello": "DiskHola", "World": "Mundo"},
		"fr": {"Hello": "Bonjour"},
	}
	mem := TranslationStore{
		"es": {"Hello": "MemHola", "Welcome": "Bienvenido"},
		"de": {"Hello": "Hallo"},
	}

	merged := MergeStores(disk, mem)

	checks := []struct {
		lang, text, want string
	}{
		{"es", "Hello", "MemHola"},      // memory wins on conflict
		{"es", "World", "Mundo"},        // disk-only survives
		{"es", "Welcome", "Bienvenido"}, // memory-only survives
		{"fr", "Hello", "Bonjour"},      // disk-only language survives
		{"de", "Hello", "Hallo"},        // memory-only language survives
	}
	for _, c := range checks {
		if v, ok := merged.Lookup(c.lang, c.text); !ok || v != c.want {
			t.Errorf("merged[%s][%s] = %q, %v; want %q", c.lang, c.text, v, ok, c.want)
		}
	}
}

func TestMergeStores_InputsUntouched(t *testing.T) {
	disk := TranslationStore{"es": {"Hello": "DiskHola"}}
	mem := TranslationStore{"es": {"Hello": "MemHola"}}

	_ = MergeStores(disk, mem)

	if v, _ := disk.Lookup("es", "Hello"); v != "DiskHola" {
		t.Errorf("disk input mutated: %q", v)
	}
	if v, _ := mem.Lookup("es", "Hello"); v != "MemHola" {
		t.Errorf("memory input mutated: %q", v)
	}
}
