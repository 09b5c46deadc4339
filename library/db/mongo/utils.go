package mongo

import (
	"github.com/Laisky/errors/v2"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
)

// NotFound reports whether err is the driver's no-documents error.
func NotFound(err error) bool {
	return errors.Is(err, mongoLib.ErrNoDocuments)
}

// WriteFailures extracts the per-document failures of an unordered bulk write,
// keyed by the index of the document in the submitted batch.
// ok is false when err is not a bulk write error, the whole call failed then.
func WriteFailures(err error) (failures map[int]string, ok bool) {
	var bwe mongoLib.BulkWriteException
	if !errors.As(err, &bwe) {
		return nil, false
	}
	if bwe.WriteConcernError != nil {
		return nil, false
	}

	failures = make(map[int]string, len(bwe.WriteErrors))
	for _, we := range bwe.WriteErrors {
		failures[we.Index] = we.Message
	}

	return failures, true
}
