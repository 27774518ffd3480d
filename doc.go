// Package treelate provides on-demand text translation with durable
// server-side caching and tree-aware client-side substitution.
//
// The server half pairs a Manager with a persistent store and a remote
// translation provider: lookups are answered from an in-memory mirror of
// the store, reconciled against the durable copy before every operation
// so manual edits to the stored document always win; misses go to the
// provider and are persisted with merge semantics that never clobber
// concurrent edits.
//
// The client half walks a tree of renderable nodes, collects the unique
// translatable text leaves, resolves each one once through a session
// cache and a translation service, and rebuilds an equivalent tree with
// the translations substituted.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/treelate"
//	    "github.com/ZaguanLabs/treelate/cache"
//	    "github.com/ZaguanLabs/treelate/provider"
//	    "github.com/ZaguanLabs/treelate/store"
//	)
//
//	func main() {
//	    // Server half: store-backed manager over a remote provider.
//	    p := provider.NewHTTPProvider(provider.HTTPConfig{
//	        URL:    "https://libretranslate.com/translate",
//	        APIKey: os.Getenv("TRANSLATE_API_KEY"),
//	    })
//	    mgr := treelate.NewManager(store.NewFileStore("translations.json"), p)
//
//	    // Client half: tree translation with a session cache.
//	    tt := treelate.NewTreeTranslator(mgr,
//	        treelate.WithSessionCache(cache.NewInMemoryCache(0)),
//	    )
//
//	    tree := &treelate.Element{Tag: "div", Children: []treelate.Node{
//	        treelate.Text("Hello World"),
//	    }}
//	    res, err := tt.Translate(context.Background(), tree, "es")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = res.Root // translated tree
//	}
package treelate
