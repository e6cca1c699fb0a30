package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PGijsbers/croissant/internal/document"
	"github.com/PGijsbers/croissant/internal/issues"
	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// buildGraph validates an inline metadata document; tests picking structural
// nodes out of it start from a realistic graph instead of hand-built nodes.
func buildGraph(t *testing.T, raw string) *structure.Graph {
	t.Helper()
	doc, err := document.Parse([]byte(raw), "metadata.json")
	require.NoError(t, err)
	g, err := structure.Build(context.Background(), doc, issues.New())
	require.NoError(t, err)
	return g
}

const joinDocument = `{
	"@type": "sc:Dataset",
	"name": "mydataset",
	"distribution": [
		{"@type": "sc:FileObject", "name": "users", "contentUrl": "users.csv", "encodingFormat": "text/csv", "sha256": "xxx"},
		{"@type": "sc:FileObject", "name": "publications", "contentUrl": "publications.csv", "encodingFormat": "text/csv", "sha256": "xxx"}
	],
	"recordSet": [{
		"@type": "ml:RecordSet",
		"name": "publications_by_user",
		"field": [
			{"@type": "ml:Field", "name": "pub_id", "dataType": "sc:Text", "source": "#{publications/pub_id}"},
			{
				"@type": "ml:Field",
				"name": "author",
				"dataType": "sc:Text",
				"source": "#{publications/author}",
				"references": "#{users/author_id}"
			},
			{"@type": "ml:Field", "name": "author_name", "dataType": "sc:Text", "source": "#{users/name}"}
		]
	}]
}`

func joinUnderTest(t *testing.T) *Join {
	t.Helper()
	g := buildGraph(t, joinDocument)
	rs, ok := g.RecordSet("publications_by_user")
	require.True(t, ok)
	return &Join{
		base:      base{kind: "Join", node: rs},
		recordSet: rs,
		left:      structure.Source{Node: "publications", Column: "author"},
		right:     structure.Source{Node: "users", Column: "author_id"},
	}
}

func publicationsTable() *table.Table {
	t := table.New("pub_id", "author")
	t.Append(table.Row{"pub_id": "a", "author": "1"})
	t.Append(table.Row{"pub_id": "b", "author": "1"})
	t.Append(table.Row{"pub_id": "c", "author": "3"})
	return t
}

func usersTable() *table.Table {
	t := table.New("author_id", "name")
	t.Append(table.Row{"author_id": "1", "name": "Alice"})
	t.Append(table.Row{"author_id": "2", "name": "Bob"})
	return t
}

func TestJoin(t *testing.T) {
	join := joinUnderTest(t)

	result, err := join.Execute(context.Background(), []Result{publicationsTable(), usersTable()})
	require.NoError(t, err)
	merged, ok := result.(*table.Table)
	require.True(t, ok)

	require.Equal(t, 3, merged.Len(), "left outer join keeps every left row")
	rows := merged.Rows()
	assert.Equal(t, "Alice", rows[0]["name"])
	assert.Equal(t, "Alice", rows[1]["name"])
	assert.Nil(t, rows[2]["name"], "unmatched left row keeps nil right columns")
}

// Topological order does not fix which operand arrives first; the join must
// produce the same table either way.
func TestJoinIsOrderIndependent(t *testing.T) {
	join := joinUnderTest(t)
	ctx := context.Background()

	forward, err := join.Execute(ctx, []Result{publicationsTable(), usersTable()})
	require.NoError(t, err)
	reversed, err := join.Execute(ctx, []Result{usersTable(), publicationsTable()})
	require.NoError(t, err)

	assert.Equal(t, forward.(*table.Table).Rows(), reversed.(*table.Table).Rows())
}

func TestJoinSingleOperandPassesThrough(t *testing.T) {
	join := joinUnderTest(t)
	input := publicationsTable()

	result, err := join.Execute(context.Background(), []Result{input})
	require.NoError(t, err)
	assert.Same(t, input, result)
}

func TestJoinErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("three operands", func(t *testing.T) {
		join := joinUnderTest(t)
		_, err := join.Execute(ctx, []Result{publicationsTable(), usersTable(), usersTable()})
		assert.EqualError(t, err, `unsupported: trying to join 3 tables for node "publications_by_user"`)
	})

	t.Run("missing left reference", func(t *testing.T) {
		join := joinUnderTest(t)
		join.left = structure.Source{}
		_, err := join.Execute(ctx, []Result{publicationsTable(), usersTable()})
		assert.EqualError(t, err, `join for node "publications_by_user" has no valid left reference`)
	})

	t.Run("key column missing from both operands", func(t *testing.T) {
		join := joinUnderTest(t)
		join.left = structure.Source{Node: "publications", Column: "nope"}
		_, err := join.Execute(ctx, []Result{publicationsTable(), usersTable()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "nope" does not exist in node "publications"`)
	})

	t.Run("non tabular input", func(t *testing.T) {
		join := joinUnderTest(t)
		_, err := join.Execute(ctx, []Result{publicationsTable(), "not a table"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected input string")
	})
}

// The left key's declared transforms run before matching, so a raw filename
// column can join against an extracted identifier.
func TestJoinAppliesLeftKeyTransforms(t *testing.T) {
	join := joinUnderTest(t)
	join.left.Transforms = []structure.Transform{{Regex: `author-(\d+)`}}

	left := table.New("pub_id", "author")
	left.Append(table.Row{"pub_id": "a", "author": "author-1"})

	result, err := join.Execute(context.Background(), []Result{left, usersTable()})
	require.NoError(t, err)
	rows := result.(*table.Table).Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0]["name"])
	assert.Equal(t, "1", rows[0]["author"])
}
