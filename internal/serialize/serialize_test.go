package serialize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecord struct {
	id  uuid.UUID
	at  time.Time
	img *string
}

func (f fakeRecord) Document() map[string]any {
	return map[string]any{"_id": f.id, "createdAt": f.at, "image": f.img}
}

func containsNativeTypes(v any) bool {
	switch t := v.(type) {
	case uuid.UUID, *uuid.UUID, time.Time, *time.Time:
		return true
	case map[string]any:
		for _, val := range t {
			if containsNativeTypes(val) {
				return true
			}
		}
	case []any:
		for _, val := range t {
			if containsNativeTypes(val) {
				return true
			}
		}
	}
	return false
}

func TestValue_NestedSubRecords(t *testing.T) {
	rowID := uuid.New()
	childID := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 123, time.FixedZone("X", 3600))

	doc := map[string]any{
		"_id":       rowID,
		"timestamp": at,
		"results": []map[string]any{
			{"_id": childID, "label": "Healthy", "confidence": 0.93},
		},
		"history": []any{&at, map[string]any{"seen": at}},
		"tags":    []string{"rice", "monsoon"},
		"image":   nil,
	}

	out := Value(doc).(map[string]any)
	assert.False(t, containsNativeTypes(out))
	assert.Equal(t, rowID.String(), out["_id"])
	assert.Equal(t, "2024-05-01T11:00:00.000000123Z", out["timestamp"])
	assert.Nil(t, out["image"])

	results := out["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, childID.String(), results[0].(map[string]any)["_id"])

	_, err := json.Marshal(out)
	require.NoError(t, err)

	// unchanged input
	assert.Equal(t, rowID, doc["_id"])
}

func TestValue_Idempotent(t *testing.T) {
	doc := map[string]any{
		"_id":   uuid.New(),
		"at":    time.Now(),
		"count": 3,
		"list":  []any{uuid.New(), "plain", 1.5, nil},
	}
	once := Value(doc)
	twice := Value(once)
	assert.Equal(t, once, twice)

	first, err := json.Marshal(once)
	require.NoError(t, err)
	second, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestValue_NilPointers(t *testing.T) {
	var id *uuid.UUID
	var at *time.Time
	var s *string
	assert.Nil(t, Value(id))
	assert.Nil(t, Value(at))
	assert.Nil(t, Value(s))
	assert.Nil(t, Value(nil))
	assert.Equal(t, "x", Value("x"))
	assert.Equal(t, 42, Value(42))
}

func TestRecords(t *testing.T) {
	img := "https://img/1.jpg"
	recs := []fakeRecord{{id: uuid.New(), at: time.Now(), img: &img}}
	out := Records(recs)
	require.Len(t, out, 1)
	m := out[0].(map[string]any)
	assert.Equal(t, img, m["image"])
	assert.IsType(t, "", m["_id"])

	assert.NotNil(t, Records([]fakeRecord(nil)))
}
