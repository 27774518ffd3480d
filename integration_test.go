package treelate_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/treelate"
	"github.com/ZaguanLabs/treelate/cache"
	"github.com/ZaguanLabs/treelate/provider"
	"github.com/ZaguanLabs/treelate/server"
	"github.com/ZaguanLabs/treelate/store"
)

// Integration tests using all real components

func TestIntegration_FetchThenServeFromStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	p := provider.NewMockProvider()
	mgr := treelate.NewManager(store.NewFileStore(storePath), p)

	// First request is a miss: fetched and persisted.
	v, err := mgr.TranslateText(context.Background(), "Hello", "es")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if v != "Hola" {
		t.Errorf("TranslateText = %q, want Hola", v)
	}

	// The store file now holds the fetched translation verbatim.
	raw, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var doc map[string]map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parsing store file: %v", err)
	}
	if doc["es"]["Hello"] != "Hola" {
		t.Errorf("store document = %v, want es/Hello/Hola", doc)
	}

	// A fresh manager over the same file answers without the provider.
	p2 := provider.NewMockProvider()
	mgr2 := treelate.NewManager(store.NewFileStore(storePath), p2)
	v, err = mgr2.TranslateText(context.Background(), "Hello", "es")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if v != "Hola" {
		t.Errorf("TranslateText = %q, want Hola", v)
	}
	if p2.CallCount != 0 {
		t.Errorf("provider called %d times on a warm store, want 0", p2.CallCount)
	}
}

func TestIntegration_ManualEditObserved(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	p := provider.NewMockProvider()
	mgr := treelate.NewManager(store.NewFileStore(storePath), p)

	if _, err := mgr.TranslateText(context.Background(), "Hello", "es"); err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	// Edit the file directly, as a human reviewer would.
	doc := map[string]map[string]string{"es": {"Hello": "Buenas"}}
	raw, _ := json.Marshal(doc)
	if err := os.WriteFile(storePath, raw, 0o644); err != nil {
		t.Fatalf("editing store file: %v", err)
	}

	// The same manager observes the edit on its next request.
	v, err := mgr.TranslateText(context.Background(), "Hello", "es")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if v != "Buenas" {
		t.Errorf("TranslateText = %q, want manually edited Buenas", v)
	}
	if p.CallCount != 1 {
		t.Errorf("provider called %d times, want 1 (only the first miss)", p.CallCount)
	}
}

func TestIntegration_OverrideSurvivesFetch(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	p := provider.NewMockProvider()
	mgr := treelate.NewManager(store.NewFileStore(storePath), p)

	if err := mgr.Override(context.Background(), "Hello", "es", "Buenas"); err != nil {
		t.Fatalf("Override failed: %v", err)
	}

	v, err := mgr.TranslateText(context.Background(), "Hello", "es")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}
	if v != "Buenas" {
		t.Errorf("TranslateText = %q, want Buenas", v)
	}
	if p.CallCount != 0 {
		t.Errorf("provider called %d times, want 0", p.CallCount)
	}
}

func TestIntegration_ClientServerTree(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	p := provider.NewMockProvider()
	mgr := treelate.NewManager(store.NewFileStore(storePath), p)

	srv := httptest.NewServer(server.New(mgr).Handler())
	defer srv.Close()

	client := treelate.NewClient(srv.URL, 0)
	tt := treelate.NewTreeTranslator(client,
		treelate.WithSessionCache(cache.NewInMemoryCache(0)))

	root := &treelate.Element{Tag: "div", Children: []treelate.Node{
		treelate.Text("Hello"),
		&treelate.Element{Tag: "p", Children: []treelate.Node{
			treelate.Text("World"),
			treelate.Text("Hello"),
		}},
	}}

	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	out := res.Root.(*treelate.Element)
	if txt := out.Children[0].(treelate.Text); string(txt) != "Hola" {
		t.Errorf("child[0] = %q, want Hola", txt)
	}
	inner := out.Children[1].(*treelate.Element)
	if txt := inner.Children[0].(treelate.Text); string(txt) != "Mundo" {
		t.Errorf("nested child = %q, want Mundo", txt)
	}
	if txt := inner.Children[1].(treelate.Text); string(txt) != "Hola" {
		t.Errorf("repeated text = %q, want Hola", txt)
	}

	// "Hello" twice plus "World": two unique texts, two provider calls.
	if p.CallCount != 2 {
		t.Errorf("provider called %d times, want 2", p.CallCount)
	}
	if res.TotalTexts != 3 || res.TranslatedCount != 2 {
		t.Errorf("stats = %d/%d, want 3 total, 2 translated", res.TotalTexts, res.TranslatedCount)
	}

	// Session cache absorbs the second pass entirely.
	res2, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("second Translate failed: %v", err)
	}
	if res2.CachedCount != 2 {
		t.Errorf("CachedCount = %d, want 2", res2.CachedCount)
	}
	if p.CallCount != 2 {
		t.Errorf("provider called %d times after cached pass, want still 2", p.CallCount)
	}
}

func TestIntegration_SessionOverHTTP(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	mgr := treelate.NewManager(store.NewFileStore(storePath), provider.NewMockProvider())

	srv := httptest.NewServer(server.New(mgr).Handler())
	defer srv.Close()

	tt := treelate.NewTreeTranslator(treelate.NewClient(srv.URL, 0))
	session := treelate.NewSession(tt)

	<-session.Refresh(context.Background(), treelate.Text("Hello"), "es")

	if session.State() != treelate.StateSuccess {
		t.Fatalf("State = %v, want success (err: %v)", session.State(), session.Err())
	}
	if txt := session.Result().(treelate.Text); string(txt) != "Hola" {
		t.Errorf("Result = %q, want Hola", txt)
	}

	session.Close()
}

func TestIntegration_HTMLEndToEnd(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "translations.json")
	mgr := treelate.NewManager(store.NewFileStore(storePath), provider.NewMockProvider())

	tt := treelate.NewTreeTranslator(mgr,
		treelate.WithSessionCache(cache.NewInMemoryCache(0)))

	html := `<html><body><h1>Hello World</h1><script>var x = "Hello";</script></body></html>`
	out, err := tt.TranslateHTML(context.Background(), html, "es")
	if err != nil {
		t.Fatalf("TranslateHTML failed: %v", err)
	}

	if !strings.Contains(out, "Hola Mundo") {
		t.Errorf("output missing translation:\n%s", out)
	}
	if !strings.Contains(out, `var x = "Hello";`) {
		t.Errorf("script content altered:\n%s", out)
	}
	if !strings.Contains(out, `lang="es"`) {
		t.Errorf("html tag missing lang attribute:\n%s", out)
	}
}
