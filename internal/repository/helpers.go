package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parisxmas/examapi/internal/models"
)

// toDocument converts a decoded BSON document into plain JSON-friendly
// values: ObjectIDs become hex strings, dates become time.Time, and
// embedded documents and arrays become maps and slices.
func toDocument(m map[string]any) models.Document {
	doc := make(models.Document, len(m))
	for k, v := range m {
		doc[k] = normalize(v)
	}
	return doc
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.M:
		return map[string]any(toDocument(t))
	case map[string]any:
		return map[string]any(toDocument(t))
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return map[string]any(toDocument(m))
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
