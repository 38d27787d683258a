// Package static serves embedded or on-disk assets through the router.
//
//	//go:embed assets
//	var assets embed.FS
//
//	r.Get("/assets/{file...}", static.FS[*card.Context](assets,
//		static.WithStripPrefix("/assets"),
//		static.WithSubFS("assets"),
//		static.WithMaxAge(time.Hour),
//	))
package static
