// Package storage reads the card's static assets, such as the vCard, from
// the local filesystem, over HTTP or from object storage backends in
// integration/storage.
//
// Every backend implements Reader. Multi routes a location to the first
// backend that accepts it:
//
//	store := storage.Multi{
//		storage.NewLocalStorage("./public"),
//		storage.NewHTTPStorage(),
//		s3Store,
//	}
//	obj, err := store.Read(ctx, "s3://cards/scott-zaleski.vcf")
//
// Fetcher adapts a Reader to the download dispatcher, optionally mapping
// public URL paths to storage locations:
//
//	f := storage.Fetcher{
//		Reader:  store,
//		Aliases: map[string]string{"/scott-zaleski.vcf": "scott-zaleski.vcf"},
//	}
//
// Objects are read fully into memory and capped at DefaultMaxSize.
package storage
