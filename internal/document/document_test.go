package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`{
		"@type": "sc:Dataset",
		"name": "mydataset",
		"version": 1.5,
		"active": true,
		"missing": null,
		"distribution": [
			{"@type": "sc:FileObject", "name": "a-csv-table"}
		]
	}`), "metadata.json")
	require.NoError(t, err)

	assert.Equal(t, "sc:Dataset", String(doc, "@type"))
	assert.Equal(t, "mydataset", String(doc, "name"))
	assert.Equal(t, 1.5, doc["version"])
	assert.Equal(t, true, doc["active"])
	assert.Nil(t, doc["missing"])

	distributions := Objects(doc, "distribution")
	require.Len(t, distributions, 1)
	assert.Equal(t, "a-csv-table", String(distributions[0], "name"))
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"name": `), "metadata.json")
	assert.Error(t, err)
}

func TestSliceNormalizesSingletons(t *testing.T) {
	doc, err := Parse([]byte(`{"containedIn": "archive", "many": ["a", "b"]}`), "metadata.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"archive"}, Strings(doc, "containedIn"))
	assert.Equal(t, []string{"a", "b"}, Strings(doc, "many"))
	assert.Nil(t, Slice(doc, "absent"))
}

func TestObjectsDropsNonObjects(t *testing.T) {
	doc, err := Parse([]byte(`{"field": [{"name": "x"}, "not-an-object"]}`), "metadata.json")
	require.NoError(t, err)

	objects := Objects(doc, "field")
	require.Len(t, objects, 1)
	assert.Equal(t, "x", String(objects[0], "name"))
}

func TestParseNestedData(t *testing.T) {
	doc, err := Parse([]byte(`{
		"recordSet": [{
			"name": "ratings",
			"data": [{"user": "alice", "score": 5}]
		}]
	}`), "metadata.json")
	require.NoError(t, err)

	recordSets := Objects(doc, "recordSet")
	require.Len(t, recordSets, 1)
	data := Objects(recordSets[0], "data")
	require.Len(t, data, 1)
	assert.Equal(t, "alice", data[0]["user"])
	assert.Equal(t, float64(5), data[0]["score"])
}
