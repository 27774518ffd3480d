package treelate

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// recordingTranslator records the order texts were requested in.
type recordingTranslator struct {
	mu           sync.Mutex
	translations map[string]string
	failOn       map[string]error
	requested    []string
}

func (r *recordingTranslator) TranslateText(ctx context.Context, text, lang string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requested = append(r.requested, text)
	if err, ok := r.failOn[text]; ok {
		return "", err
	}
	return r.translations[text], nil
}

// mapCache is a minimal SessionCache for tests.
type mapCache struct {
	data map[string]string
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(key string) (string, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(key, value string) error {
	c.sets++
	c.data[key] = value
	return nil
}

func sampleTree() Node {
	return &Element{Tag: "div", Children: []Node{
		Text("Hello"),
		&Element{Tag: "p", Children: []Node{
			Text("World"),
			&Element{Tag: "span", Children: []Node{Text("Hello")}},
		}},
		Text("Hello"),
	}}
}

func TestTreeTranslator_TranslatesLeaves(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{
		"Hello": "Hola",
		"World": "Mundo",
	}}
	tt := NewTreeTranslator(svc)

	res, err := tt.Translate(context.Background(), sampleTree(), "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	var texts []string
	Walk(res.Root, func(n Node, depth int) bool {
		if txt, ok := n.(Text); ok {
			texts = append(texts, string(txt))
		}
		return true
	})

	want := []string{"Hola", "Mundo", "Hola", "Hola"}
	if len(texts) != len(want) {
		t.Fatalf("got %d text nodes, want %d", len(texts), len(want))
	}
	for i, w := range want {
		if texts[i] != w {
			t.Errorf("text[%d] = %q, want %q", i, texts[i], w)
		}
	}
}

func TestTreeTranslator_DeduplicatesRepeatedText(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{
		"Hello": "Hola",
		"World": "Mundo",
	}}
	tt := NewTreeTranslator(svc)

	res, err := tt.Translate(context.Background(), sampleTree(), "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// "Hello" appears three times but is resolved once.
	if len(svc.requested) != 2 {
		t.Errorf("service called %d times, want 2 (got %v)", len(svc.requested), svc.requested)
	}
	if res.TotalTexts != 4 {
		t.Errorf("TotalTexts = %d, want 4", res.TotalTexts)
	}
	if res.TranslatedCount != 2 {
		t.Errorf("TranslatedCount = %d, want 2", res.TranslatedCount)
	}
}

func TestTreeTranslator_ShallowTextRequestedFirst(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{}}
	tt := NewTreeTranslator(svc)

	root := &Element{Tag: "div", Children: []Node{
		&Element{Tag: "p", Children: []Node{
			&Element{Tag: "span", Children: []Node{Text("deep")}},
		}},
		Text("shallow"),
	}}

	if _, err := tt.Translate(context.Background(), root, "es"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(svc.requested) != 2 || svc.requested[0] != "shallow" || svc.requested[1] != "deep" {
		t.Errorf("request order = %v, want [shallow deep]", svc.requested)
	}
}

func TestTreeTranslator_IgnoredSubtreeReturnedByIdentity(t *testing.T) {
	ignored := &Element{
		Tag:      "p",
		Props:    map[string]any{IgnoreProp: true},
		Children: []Node{Text("Hello")},
	}
	root := &Element{Tag: "div", Children: []Node{ignored, Text("World")}}

	svc := &recordingTranslator{translations: map[string]string{"World": "Mundo"}}
	tt := NewTreeTranslator(svc)

	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	out := res.Root.(*Element)
	if out.Children[0] != Node(ignored) {
		t.Error("ignored subtree should be the original node, not a copy")
	}
	if txt := out.Children[1].(Text); string(txt) != "Mundo" {
		t.Errorf("sibling text = %q, want Mundo", txt)
	}
	for _, req := range svc.requested {
		if req == "Hello" {
			t.Error("text inside an ignored subtree was sent to the service")
		}
	}
}

func TestTreeTranslator_FailedTextDegradesToOriginal(t *testing.T) {
	svc := &recordingTranslator{
		translations: map[string]string{"World": "Mundo"},
		failOn:       map[string]error{"Hello": errors.New("backend error")},
	}
	tt := NewTreeTranslator(svc)

	root := &Element{Tag: "div", Children: []Node{Text("Hello"), Text("World")}}
	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	out := res.Root.(*Element)
	if txt := out.Children[0].(Text); string(txt) != "Hello" {
		t.Errorf("failed text = %q, want original Hello", txt)
	}
	if txt := out.Children[1].(Text); string(txt) != "Mundo" {
		t.Errorf("sibling text = %q, want Mundo", txt)
	}
}

func TestTreeTranslator_EmptyTranslationKeepsOriginal(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{"Hello": ""}}
	tt := NewTreeTranslator(svc)

	res, err := tt.Translate(context.Background(), Text("Hello"), "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if txt := res.Root.(Text); string(txt) != "Hello" {
		t.Errorf("text = %q, want Hello", txt)
	}
	if res.TranslatedCount != 0 {
		t.Errorf("TranslatedCount = %d, want 0", res.TranslatedCount)
	}
}

func TestTreeTranslator_CancellationFailsWhole(t *testing.T) {
	svc := &recordingTranslator{failOn: map[string]error{"Hello": context.Canceled}}
	tt := NewTreeTranslator(svc)

	_, err := tt.Translate(context.Background(), Text("Hello"), "es")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTreeTranslator_SessionCache(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{"Hello": "Hola"}}
	c := newMapCache()
	tt := NewTreeTranslator(svc, WithSessionCache(c))

	if _, err := tt.Translate(context.Background(), Text("Hello"), "es"); err != nil {
		t.Fatalf("first Translate failed: %v", err)
	}
	res, err := tt.Translate(context.Background(), Text("Hello"), "es")
	if err != nil {
		t.Fatalf("second Translate failed: %v", err)
	}

	if len(svc.requested) != 1 {
		t.Errorf("service called %d times, want 1", len(svc.requested))
	}
	if res.CachedCount != 1 {
		t.Errorf("CachedCount = %d, want 1", res.CachedCount)
	}
	if v, ok := c.Get(SessionKey("Hello", "es")); !ok || v != "Hola" {
		t.Errorf("cache entry = %q, %v; want Hola, true", v, ok)
	}
}

func TestTreeTranslator_SourceLanguageFastPath(t *testing.T) {
	svc := &recordingTranslator{}
	tt := NewTreeTranslator(svc)

	root := sampleTree()
	res, err := tt.Translate(context.Background(), root, "en_US")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Root != root {
		t.Error("source-language translation should return the input tree")
	}
	if len(svc.requested) != 0 {
		t.Errorf("service called %d times, want 0", len(svc.requested))
	}
}

func TestTreeTranslator_NilRoot(t *testing.T) {
	tt := NewTreeTranslator(&recordingTranslator{})
	res, err := tt.Translate(context.Background(), nil, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Root != nil || res.TotalTexts != 0 {
		t.Errorf("nil root result = %+v, want empty", res)
	}
}

func TestTreeTranslator_WhitespaceOnlyTextSkipped(t *testing.T) {
	svc := &recordingTranslator{}
	tt := NewTreeTranslator(svc)

	root := &Element{Tag: "div", Children: []Node{Text("  \n\t "), Text("")}}
	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.TotalTexts != 0 {
		t.Errorf("TotalTexts = %d, want 0", res.TotalTexts)
	}
	if len(svc.requested) != 0 {
		t.Errorf("service called %d times, want 0", len(svc.requested))
	}
}

func TestTreeTranslator_PaddedTextSentRaw(t *testing.T) {
	svc := &recordingTranslator{translations: map[string]string{"  Hello  ": "Hola"}}
	tt := NewTreeTranslator(svc)

	root := &Element{Tag: "div", Children: []Node{
		Text("  Hello  "),
		Text("Hello"),
	}}

	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// Deduplication keys on the trimmed text, but the request carries the
	// first occurrence's padding intact.
	if len(svc.requested) != 1 {
		t.Fatalf("service called %d times, want 1: %v", len(svc.requested), svc.requested)
	}
	if svc.requested[0] != "  Hello  " {
		t.Errorf("requested %q, want the raw padded text", svc.requested[0])
	}

	out := res.Root.(*Element)
	for i, child := range out.Children {
		if txt := child.(Text); string(txt) != "Hola" {
			t.Errorf("child[%d] = %q, want Hola", i, txt)
		}
	}
}

func TestTreeTranslator_OpaquePassthrough(t *testing.T) {
	op := Opaque{Value: 42}
	root := &Element{Tag: "div", Children: []Node{op, Text("Hello")}}

	svc := &recordingTranslator{translations: map[string]string{"Hello": "Hola"}}
	tt := NewTreeTranslator(svc)

	res, err := tt.Translate(context.Background(), root, "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	out := res.Root.(*Element)
	if got, ok := out.Children[0].(Opaque); !ok || got.Value != 42 {
		t.Errorf("opaque child = %#v, want passthrough", out.Children[0])
	}
}

func TestTreeTranslator_InputTreeNotMutated(t *testing.T) {
	root := sampleTree()
	svc := &recordingTranslator{translations: map[string]string{"Hello": "Hola", "World": "Mundo"}}
	tt := NewTreeTranslator(svc)

	if _, err := tt.Translate(context.Background(), root, "es"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if txt := root.(*Element).Children[0].(Text); string(txt) != "Hello" {
		t.Errorf("input tree mutated: first child = %q", txt)
	}
}
