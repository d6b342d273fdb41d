// Package dataset loads float32 streams from parquet files and writes
// reconstructed streams back to parquet.
//
// Locations are either local paths or s3://bucket/key URIs. S3 access goes
// through the AWS SDK v2; custom endpoints and path-style addressing cover
// S3-compatible services such as MinIO and LocalStack.
//
// # Basic Usage
//
//	store, err := dataset.NewStore(dataset.WithS3Config(dataset.S3Config{Region: "us-east-1"}))
//	values, err := store.ReadColumn(ctx, "s3://bucket/events.parquet", "pt.list.element")
//	for i, chunk := range dataset.Chunks(values, 1<<20) {
//		...
//	}
package dataset
