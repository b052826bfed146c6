// Package style turns style descriptors into the attributes a renderer draws
// with, and caches the result.
//
// Realizing a descriptor overlays it on a base style, resolves fonts and
// paragraph layout, and builds the tcell style for terminal output. That work
// is repeated for every run on every draw unless it is memoized, so the
// attribute store asks a Cache rather than a Materializer directly:
//
//	cache := style.NewCache(style.NewMaterializer(base))
//	attrs := cache.Materialize(desc)
//
// A Cache is not safe for concurrent use. It belongs to the goroutine that
// owns the document.
package style
