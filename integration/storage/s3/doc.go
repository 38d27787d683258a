// Package s3 reads card assets from Amazon S3 and S3-compatible services
// (MinIO, DigitalOcean Spaces, Wasabi) using the AWS SDK v2.
//
// Locations take the form s3://bucket/key. S3Storage implements
// storage.Reader, so it plugs into storage.Multi next to the local and HTTP
// readers:
//
//	cfg := s3.Config{
//		Bucket:   "cards",
//		Region:   "us-east-1",
//		Endpoint: "http://localhost:9000", // MinIO
//		ForcePathStyle: true,
//	}
//	store, err := s3.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	obj, err := store.Read(ctx, "s3://cards/scott-zaleski.vcf")
//
// Credentials come from AccessKeyID and SecretKey when both are set and from
// the default AWS chain otherwise. SDK errors are mapped to the storage
// package sentinels, e.g. storage.ErrFileNotFound for a missing key.
package s3
