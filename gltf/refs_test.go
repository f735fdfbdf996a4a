package gltf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/gltfpack/internal/testutil"
)

func refsDocument(t *testing.T) Document {
	t.Helper()
	return Document(testutil.Document(t, testutil.Object{
		ListBufferViews: testutil.Views([2]int{0, 4}, [2]int{4, 4}, [2]int{8, 4}, [2]int{12, 4}),
		ListImages:      []testutil.Object{{"bufferView": 0, "mimeType": "image/png"}},
		"accessors": []testutil.Object{
			{"bufferView": 1, "count": 1},
			{"count": 2, "sparse": testutil.Object{
				"indices": testutil.Object{"bufferView": 3},
				"values":  testutil.Object{"bufferView": 1},
			}},
		},
		"extras": testutil.Object{"bufferView": "not an index"},
	}))
}

func TestBufferViewRefs(t *testing.T) {
	t.Parallel()

	doc := refsDocument(t)

	refs, err := BufferViewRefs(doc)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true, 1: true, 3: true}, refs)

	refs, err = BufferViewRefs(doc, ListImages)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 3: true}, refs)
}

func TestRemapBufferViews(t *testing.T) {
	t.Parallel()

	doc := refsDocument(t)
	before := string(doc["extras"])

	require.NoError(t, RemapBufferViews(doc, map[int]int{1: 0, 3: 1}))

	assert.JSONEq(t, `[{"bufferView":0,"mimeType":"image/png"}]`, string(doc[ListImages]), "unmapped references are kept")
	assert.JSONEq(t, `[
		{"bufferView":0,"count":1},
		{"count":2,"sparse":{"indices":{"bufferView":1},"values":{"bufferView":0}}}
	]`, string(doc["accessors"]))
	assert.Equal(t, before, string(doc["extras"]), "members without a changed reference are untouched")
}

func TestAddExtensionUsed(t *testing.T) {
	t.Parallel()

	doc := Document{}
	require.NoError(t, AddExtensionUsed(doc, "KHR_a"))
	require.NoError(t, AddExtensionUsed(doc, "KHR_b"))
	require.NoError(t, AddExtensionUsed(doc, "KHR_a"))
	assert.JSONEq(t, `["KHR_a","KHR_b"]`, string(doc[MemberExtensionsUsed]))

	bad := Document{MemberExtensionsUsed: []byte(`{}`)}
	assert.ErrorIs(t, AddExtensionUsed(bad, "KHR_a"), ErrExpectedList)
}
