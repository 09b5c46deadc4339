package redis

const (
	keyPrefix = "movies/"

	// KeyPrefixIngestJob is the key prefix for bulk ingest job snapshots
	KeyPrefixIngestJob = keyPrefix + "jobs/ingest/"
)
