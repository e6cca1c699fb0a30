package structure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGijsbers/croissant/internal/document"
	"github.com/PGijsbers/croissant/internal/issues"
)

func build(t *testing.T, raw string) (*Graph, error) {
	t.Helper()
	doc, err := document.Parse([]byte(raw), "metadata.json")
	require.NoError(t, err)
	return Build(context.Background(), doc, issues.New())
}

// One invalid document per validation rule; each must surface the exact issue
// text with its breadcrumb.
func TestStaticAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		document string
		error    string
	}{
		{
			name:     "metadata missing property name",
			document: `{"@type": "sc:Dataset"}`,
			error:    `Property "https://schema.org/name" is mandatory, but does not exist.`,
		},
		{
			name:     "metadata bad type",
			document: `{"@type": "sc:SomethingElse", "name": "mydataset"}`,
			error:    "No metadata is defined in the dataset.",
		},
		{
			name: "distribution missing property content url",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:FileObject", "name": "a-csv-table", "encodingFormat": "text/csv", "sha256": "xxx"}
				]
			}`,
			error: `Property "https://schema.org/contentUrl" is mandatory, but does not exist.`,
		},
		{
			name: "distribution bad type",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:SomethingElse", "name": "a-csv-table"}
				]
			}`,
			error: "Node should have an attribute `\"@type\" in",
		},
		{
			name: "distribution bad contained in",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{
						"@type": "sc:FileObject",
						"name": "a-csv-table",
						"encodingFormat": "text/csv",
						"containedIn": "THISDOESNOTEXIST"
					}
				]
			}`,
			error: `There is a reference to node named "THISDOESNOTEXIST" in node "a-csv-table", but this node doesn't exist.`,
		},
		{
			// When the name misses, the context should still appear without
			// the name.
			name: "distribution missing name",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:FileObject", "contentUrl": "x.csv", "encodingFormat": "text/csv", "sha256": "xxx"}
				]
			}`,
			error: `[dataset(mydataset) > distribution()] Property "https://schema.org/name" is mandatory`,
		},
		{
			name: "recordset missing property name",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{"@type": "ml:RecordSet", "data": []}]
			}`,
			error: `Property "https://schema.org/name" is mandatory, but does not exist.`,
		},
		{
			name: "recordset bad type",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{"@type": "sc:SomethingElse", "name": "a-record-set"}]
			}`,
			error: "Node should have an attribute `\"@type\" in",
		},
		{
			name: "recordset missing context for datatype",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:FileObject", "name": "a-csv-table", "contentUrl": "x.csv", "encodingFormat": "text/csv", "sha256": "xxx"}
				],
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"field": [
						{"@type": "ml:Field", "name": "first-field", "source": "#{a-csv-table/col}"}
					]
				}]
			}`,
			error: "The field does not specify any http://mlcommons.org/schema/dataType, neither does any of its predecessor.",
		},
		{
			name: "mlfield missing property name",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"data": [],
					"field": [{"@type": "ml:Field", "dataType": "sc:Text"}]
				}]
			}`,
			error: `Property "https://schema.org/name" is mandatory, but does not exist.`,
		},
		{
			name: "mlfield bad type",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"data": [],
					"field": [{"@type": "sc:SomethingElse", "name": "first-field"}]
				}]
			}`,
			error: "Node should have an attribute `\"@type\" in",
		},
		{
			name: "mlfield missing source",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"field": [{"@type": "ml:Field", "name": "first-field", "dataType": "sc:Text"}]
				}]
			}`,
			error: `Node "a-record-set/first-field" is a field and has no source.`,
		},
		{
			name: "mlfield bad source",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"field": [{
						"@type": "ml:Field",
						"name": "first-field",
						"dataType": "sc:Text",
						"source": "#{THISDOESNOTEXIST#field}"
					}]
				}]
			}`,
			error: "Malformed source data: #{THISDOESNOTEXIST#field}.",
		},
		{
			name: "source referencing unknown node",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"field": [{
						"@type": "ml:Field",
						"name": "first-field",
						"dataType": "sc:Text",
						"source": "#{THISDOESNOTEXIST/field}"
					}]
				}]
			}`,
			error: `There is a reference to node named "THISDOESNOTEXIST" in node "a-record-set/first-field", but this node doesn't exist.`,
		},
		{
			name: "mlfield referencing itself",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"recordSet": [{
					"@type": "ml:RecordSet",
					"name": "a-record-set",
					"field": [{
						"@type": "ml:Field",
						"name": "first-field",
						"dataType": "sc:Text",
						"source": "#{a-record-set/first-field}"
					}]
				}]
			}`,
			error: `Node "a-record-set/first-field" references itself.`,
		},
		{
			name: "distribution contained in itself",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:FileObject", "name": "a", "encodingFormat": "application/zip", "containedIn": "a"}
				]
			}`,
			error: `Node "a" references itself.`,
		},
		{
			name: "cyclic contained in",
			document: `{
				"@type": "sc:Dataset",
				"name": "mydataset",
				"distribution": [
					{"@type": "sc:FileObject", "name": "a", "encodingFormat": "application/zip", "containedIn": "b"},
					{"@type": "sc:FileObject", "name": "b", "encodingFormat": "application/zip", "containedIn": "a"}
				]
			}`,
			error: "References are cyclic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.document)
			require.Error(t, err)
			validationErr, ok := err.(*issues.ValidationError)
			require.True(t, ok, "expected a ValidationError, got %T", err)
			assert.Contains(t, validationErr.Error(), tt.error)
		})
	}
}

func TestBuildCollectsAllIssuesBeforeFailing(t *testing.T) {
	_, err := build(t, `{
		"@type": "sc:Dataset",
		"name": "mydataset",
		"distribution": [
			{"@type": "sc:FileObject", "name": "one", "encodingFormat": "text/csv", "sha256": "xxx"},
			{"@type": "sc:FileObject", "name": "two", "encodingFormat": "text/csv", "sha256": "xxx"}
		]
	}`)
	require.Error(t, err)
	validationErr, ok := err.(*issues.ValidationError)
	require.True(t, ok)
	// Both distributions miss their contentUrl; one pass reports both.
	assert.Len(t, validationErr.Issues, 2)
}

func TestBuildValidDocument(t *testing.T) {
	g, err := build(t, `{
		"@type": "sc:Dataset",
		"name": "mydataset",
		"license": "CC0",
		"citation": "please cite",
		"url": "https://example.com",
		"distribution": [
			{"@type": "sc:FileObject", "name": "a-csv-table", "contentUrl": "x.csv", "encodingFormat": "text/csv", "sha256": "xxx"}
		],
		"recordSet": [{
			"@type": "ml:RecordSet",
			"name": "a-record-set",
			"field": [
				{"@type": "ml:Field", "name": "first-field", "dataType": "sc:Text", "source": "#{a-csv-table/col}"}
			]
		}]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "mydataset", g.Metadata().Name())

	node, ok := g.Node("a-csv-table")
	require.True(t, ok)
	fileObject, ok := node.(*FileObject)
	require.True(t, ok)
	assert.Equal(t, "x.csv", fileObject.ContentURL)

	rs, ok := g.RecordSet("a-record-set")
	require.True(t, ok)
	require.Len(t, rs.Fields, 1)
	field := rs.Fields[0]
	assert.Equal(t, "a-record-set/first-field", field.UID())
	assert.Equal(t, DataTypeText, field.DataType())
	assert.Equal(t, "a-csv-table", field.Source.Node)

	// Reference resolution produced the edge distribution -> field.
	preds := g.Predecessors(field.UID())
	require.Len(t, preds, 1)
	assert.Equal(t, "a-csv-table", preds[0].UID())
}

func TestFieldInheritsDataTypeFromPredecessor(t *testing.T) {
	g, err := build(t, `{
		"@type": "sc:Dataset",
		"name": "mydataset",
		"distribution": [
			{"@type": "sc:FileObject", "name": "csv", "contentUrl": "x.csv", "encodingFormat": "text/csv", "sha256": "xxx"}
		],
		"recordSet": [
			{
				"@type": "ml:RecordSet",
				"name": "users",
				"field": [
					{"@type": "ml:Field", "name": "id", "dataType": "sc:Integer", "source": "#{csv/id}"}
				]
			},
			{
				"@type": "ml:RecordSet",
				"name": "derived",
				"field": [
					{"@type": "ml:Field", "name": "user_id", "source": "#{users/id}"}
				]
			}
		]
	}`)
	require.NoError(t, err)

	rs, ok := g.RecordSet("derived")
	require.True(t, ok)
	require.Len(t, rs.Fields, 1)
	assert.Equal(t, DataTypeInteger, rs.Fields[0].DataType())
}

func TestUnknownKeysAreIgnored(t *testing.T) {
	_, err := build(t, `{
		"@type": "sc:Dataset",
		"name": "mydataset",
		"somethingCustom": {"nested": [1, 2, 3]},
		"recordSet": [{
			"@type": "ml:RecordSet",
			"name": "inline",
			"data": [{"a": 1}],
			"field": [{"@type": "ml:Field", "name": "a", "dataType": "sc:Integer"}]
		}]
	}`)
	assert.NoError(t, err)
}
