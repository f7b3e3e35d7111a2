package word

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"apple", "banana", "cherry"}, SplitList(" apple, banana ,,cherry , "))
	require.Empty(t, SplitList(" , ,"))
	require.Empty(t, SplitList(""))
}

func TestWordJSONShape(t *testing.T) {
	id := primitive.NewObjectID()
	w := (&Word{ID: id, Text: "hello", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}).Normalize()
	b, err := json.Marshal(w)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, id.Hex(), got["id"])
	require.Equal(t, "hello", got["text"])
	require.Equal(t, []interface{}{}, got["collaborators"])
	require.Equal(t, "2024-01-02T03:04:05Z", got["createdAt"])
}

func TestCloneIsDeep(t *testing.T) {
	w := &Word{Text: "team", Collaborators: []string{"Frank"}}
	cp := w.Clone()
	cp.Collaborators[0] = "Eve"
	require.Equal(t, "Frank", w.Collaborators[0])
	require.True(t, w.HasCollaborator("Frank"))
	require.False(t, w.HasCollaborator("frank"))
}
