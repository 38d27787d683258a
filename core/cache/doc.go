// Package cache provides a generic, thread-safe LRU cache.
//
//	c := cache.NewLRUCache[string, []byte](16)
//	c.Put("s3://cards/scott.vcf", data)
//	if v, ok := c.Get("s3://cards/scott.vcf"); ok {
//		...
//	}
//
// When the cache is full, Put evicts the least recently used entry and
// passes it to the callback set with SetEvictCallback.
package cache
