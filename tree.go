package treelate

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// TextTranslator is anything that can translate a single piece of text.
// Both Manager (in process) and Client (over HTTP) satisfy it.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, lang string) (string, error)
}

// SessionCache is an ephemeral client-side mapping of SessionKey to
// translated text, scoped to one client session. Implementations live in
// the cache package.
type SessionCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// queueItem is one collected leaf and the depth it was found at. The
// trimmed text keys deduplication and substitution; the raw text is
// what gets sent to the service, padding intact.
type queueItem struct {
	raw   string
	text  string
	depth int
}

// TreeTranslator translates a node tree in two passes: collect every
// translatable leaf, resolve each unique text once, then rebuild an
// equivalent tree with translations substituted.
type TreeTranslator struct {
	svc        TextTranslator
	cache      SessionCache
	sourceLang string
}

// TreeOption is a functional option for configuring the TreeTranslator.
type TreeOption func(*TreeTranslator)

// WithSessionCache sets the session cache consulted before the
// translation service.
func WithSessionCache(cache SessionCache) TreeOption {
	return func(t *TreeTranslator) {
		t.cache = cache
	}
}

// WithTreeSourceLang sets the source language for the target==source fast
// path.
func WithTreeSourceLang(lang string) TreeOption {
	return func(t *TreeTranslator) {
		t.sourceLang = lang
	}
}

// NewTreeTranslator creates a TreeTranslator backed by the given
// translation service.
func NewTreeTranslator(svc TextTranslator, opts ...TreeOption) *TreeTranslator {
	t := &TreeTranslator{
		svc:        svc,
		sourceLang: "en",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate produces a new tree with every translatable leaf replaced by
// its translation into targetLang. The input tree is never mutated.
//
// Repeated text anywhere in the tree is resolved exactly once; the
// translated value is applied to every occurrence. A failed or absent
// translation degrades to the original text for that leaf instead of
// failing the traversal. Only a cancelled context fails the whole call.
func (t *TreeTranslator) Translate(ctx context.Context, root Node, targetLang string) (*Result, error) {
	if root == nil {
		return &Result{}, nil
	}
	if normalizeBaseLang(targetLang) == normalizeBaseLang(t.sourceLang) {
		return &Result{Root: root}, nil
	}

	// Pass 1: collect translatable leaves with their depths.
	var queue []queueItem
	collect(root, 0, &queue)

	// Shallower text is requested before deeper text. Substitution is
	// keyed purely by text, so this ordering has no effect on the output;
	// it only decides which occurrence goes first when duplicates sit at
	// different depths.
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].depth < queue[j].depth
	})

	translations := make(map[string]string)
	cached, translated := 0, 0

	for _, item := range queue {
		if _, done := translations[item.text]; done {
			continue
		}

		key := SessionKey(item.text, targetLang)
		if t.cache != nil {
			if v, ok := t.cache.Get(key); ok {
				translations[item.text] = v
				cached++
				continue
			}
		}

		v, err := t.svc.TranslateText(ctx, item.raw, targetLang)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Degrade to the original text; the tree still renders.
			translations[item.text] = item.text
			continue
		}
		if v == "" {
			// Well-formed response without a translation: treat as
			// absent and keep the original.
			translations[item.text] = item.text
			continue
		}

		translations[item.text] = v
		translated++
		if t.cache != nil {
			_ = t.cache.Set(key, v) // Ignore cache set errors
		}
	}

	// Pass 2: rebuild with substitutions.
	return &Result{
		Root:            rebuild(root, translations),
		TotalTexts:      len(queue),
		TranslatedCount: translated,
		CachedCount:     cached,
	}, nil
}

// collect gathers queue items depth-first. Ignore-marked elements are
// skipped with their whole subtree; Opaque nodes are skipped.
func collect(n Node, depth int, queue *[]queueItem) {
	switch node := n.(type) {
	case Text:
		trimmed := strings.TrimSpace(string(node))
		if trimmed != "" {
			*queue = append(*queue, queueItem{raw: string(node), text: trimmed, depth: depth})
		}
	case *Element:
		if node.Ignored() {
			return
		}
		for _, c := range node.Children {
			collect(c, depth+1, queue)
		}
	}
}

// rebuild re-walks the original tree producing a new one. Ignore-marked
// elements and Opaque nodes are returned by identity; structural identity
// (tag, props) of rebuilt elements is preserved with only the children
// slot replaced.
func rebuild(n Node, translations map[string]string) Node {
	switch node := n.(type) {
	case Text:
		trimmed := strings.TrimSpace(string(node))
		if trimmed == "" {
			return node
		}
		if v, ok := translations[trimmed]; ok {
			return Text(v)
		}
		return node
	case *Element:
		if node.Ignored() || len(node.Children) == 0 {
			return node
		}
		children := make([]Node, len(node.Children))
		for i, c := range node.Children {
			children[i] = rebuild(c, translations)
		}
		return &Element{Tag: node.Tag, Props: node.Props, Children: children}
	default:
		return n
	}
}
