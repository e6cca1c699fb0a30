package structure

import (
	"context"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/dag"
	"github.com/PGijsbers/croissant/internal/document"
	"github.com/PGijsbers/croissant/internal/issues"
)

// Build turns a decoded metadata document into a validated structure graph.
// Construction runs in passes: node creation, reference resolution, cycle
// detection, per-node checks and data-type resolution. Every problem found on
// the way is appended to the issue collector; only after the full pass does
// the accumulated set decide success, so a user can fix everything in one
// editing round. The returned error, if any, is a *issues.ValidationError.
func Build(ctx context.Context, doc map[string]any, iss *issues.Issues) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := NewGraph(iss)

	// The dataset node is the only structurally required context: without it
	// no breadcrumb can be built, so a bad or missing type tag aborts here.
	if document.String(doc, keyType) != TypeDataset {
		iss.AddError(issues.Context{}, "No metadata is defined in the dataset.")
		return nil, iss.ToValidationError()
	}

	createNodes(g, doc)
	logger.Debug("Structure nodes created.", "count", len(g.order))

	resolveReferences(g)
	detectReferenceCycles(g)
	logger.Debug("References resolved.")

	for _, n := range g.Nodes() {
		n.Check()
	}
	for _, n := range g.Nodes() {
		if f, ok := n.(*Field); ok {
			f.resolveDataType(make(map[string]bool))
		}
	}
	logger.Debug("Validation pass complete.",
		"errors", len(iss.Errors()), "warnings", len(iss.Warnings()))

	if err := iss.ToValidationError(); err != nil {
		return nil, err
	}
	return g, nil
}

// createNodes is the first pass: instantiate every typed node and register it
// in the arena, dispatching on the document's type tags.
func createNodes(g *Graph, doc map[string]any) {
	iss := g.issues
	dsName := document.String(doc, keyName)
	dsCtx := issues.Context{Dataset: &dsName}

	meta := &Metadata{
		baseNode:    baseNode{graph: g, issues: iss, ctx: dsCtx, uid: dsName, name: dsName},
		Description: document.String(doc, keyDescription),
		Citation:    document.String(doc, keyCitation),
		License:     document.String(doc, keyLicense),
		URL:         document.String(doc, keyURL),
		Version:     document.String(doc, keyVersion),
		Creators:    creatorNames(doc),
	}
	g.metadata = meta
	g.addNode(meta)

	for _, dist := range document.Objects(doc, keyDistribution) {
		name := document.String(dist, keyName)
		nodeCtx := issues.Context{Dataset: &dsName, Distribution: &name}
		base := baseNode{graph: g, issues: iss, ctx: nodeCtx, uid: name, name: name}
		switch document.String(dist, keyType) {
		case TypeFileObject:
			g.addNode(&FileObject{
				baseNode:       base,
				Description:    document.String(dist, keyDescription),
				ContentURL:     document.String(dist, keyContentURL),
				EncodingFormat: document.String(dist, keyEncodingFormat),
				SHA256:         document.String(dist, keySHA256),
				ContainedIn:    document.Strings(dist, keyContainedIn),
			})
		case TypeFileSet:
			g.addNode(&FileSet{
				baseNode:       base,
				Description:    document.String(dist, keyDescription),
				EncodingFormat: document.String(dist, keyEncodingFormat),
				Includes:       document.String(dist, keyIncludes),
				ContainedIn:    document.Strings(dist, keyContainedIn),
			})
		default:
			iss.AddError(nodeCtx, "Node should have an attribute `%q in [%q, %q]`.",
				keyType, TypeFileObject, TypeFileSet)
		}
	}

	for _, raw := range document.Objects(doc, keyRecordSet) {
		name := document.String(raw, keyName)
		rsCtx := issues.Context{Dataset: &dsName, RecordSet: &name}
		if document.String(raw, keyType) != TypeRecordSet {
			iss.AddError(rsCtx, "Node should have an attribute `%q in [%q]`.", keyType, TypeRecordSet)
			continue
		}
		rs := &RecordSet{
			baseNode:    baseNode{graph: g, issues: iss, ctx: rsCtx, uid: name, name: name},
			Description: document.String(raw, keyDescription),
			Keys:        document.Strings(raw, keyKey),
			Data:        inlineData(raw),
		}
		g.addNode(rs)
		createFields(g, rs, raw, dsName)
	}
}

func createFields(g *Graph, rs *RecordSet, raw map[string]any, dsName string) {
	iss := g.issues
	for _, rawField := range document.Objects(raw, keyField) {
		fieldName := document.String(rawField, keyName)
		rsName := rs.Name()
		fieldCtx := issues.Context{Dataset: &dsName, RecordSet: &rsName, Field: &fieldName}
		if document.String(rawField, keyType) != TypeField {
			iss.AddError(fieldCtx, "Node should have an attribute `%q in [%q]`.", keyType, TypeField)
			continue
		}
		uid := rs.UID() + "/" + fieldName
		f := &Field{
			baseNode:         baseNode{graph: g, issues: iss, ctx: fieldCtx, uid: uid, name: fieldName},
			Description:      document.String(rawField, keyDescription),
			DeclaredDataType: document.String(rawField, keyDataType),
			recordSet:        rs,
		}
		if rawSource, ok := rawField[keySource]; ok {
			if source, err := ParseSource(rawSource); err != nil {
				iss.AddError(fieldCtx, "%s", err)
			} else {
				f.Source = source
			}
		}
		if rawRefs, ok := rawField[keyReferences]; ok {
			if references, err := ParseSource(rawRefs); err != nil {
				iss.AddError(fieldCtx, "%s", err)
			} else {
				f.References = references
			}
		}
		rs.Fields = append(rs.Fields, f)
		g.addNode(f)
	}
}

// resolveReferences is the second pass: turn every containedIn, source and
// references value into a graph edge from the referenced node to the
// referencing one. Unresolved lookups are issues, never aborts.
func resolveReferences(g *Graph) {
	for _, n := range g.Nodes() {
		switch node := n.(type) {
		case *FileObject:
			resolveContainment(g, node.Context(), node.UID(), node.ContainedIn)
		case *FileSet:
			resolveContainment(g, node.Context(), node.UID(), node.ContainedIn)
		case *Field:
			if !node.Source.IsEmpty() {
				resolveReference(g, node, node.Source)
			} else if !node.RecordSet().HasData() {
				g.issues.AddError(node.Context(), "Node %q is a field and has no source.", node.UID())
			}
			if !node.References.IsEmpty() {
				resolveReference(g, node, node.References)
			}
		}
	}
}

func resolveContainment(g *Graph, ctx issues.Context, uid string, containedIn []string) {
	for _, container := range containedIn {
		if container == uid {
			g.issues.AddError(ctx, "Node %q references itself.", uid)
			continue
		}
		if _, ok := g.Node(container); !ok {
			g.issues.AddError(ctx,
				"There is a reference to node named %q in node %q, but this node doesn't exist.",
				container, uid)
			continue
		}
		g.AddEdge(container, uid)
	}
}

func resolveReference(g *Graph, f *Field, ref Source) {
	// A reference like #{users/author_id} may target the field node itself;
	// fall back to the node-level uid when no such field exists.
	if ref.Column != "" {
		if ref.Node+"/"+ref.Column == f.UID() {
			g.issues.AddError(f.Context(), "Node %q references itself.", f.UID())
			return
		}
		if _, ok := g.Node(ref.Node + "/" + ref.Column); ok {
			g.AddEdge(ref.Node+"/"+ref.Column, f.UID())
			return
		}
	}
	if _, ok := g.Node(ref.Node); ok {
		g.AddEdge(ref.Node, f.UID())
		return
	}
	g.issues.AddError(f.Context(),
		"There is a reference to node named %q in node %q, but this node doesn't exist.",
		ref.Node, f.UID())
}

// detectReferenceCycles verifies the resolved edges form a DAG, so the
// operation-graph compiler can assume acyclic input.
func detectReferenceCycles(g *Graph) {
	check := dag.New()
	for _, uid := range g.order {
		check.AddNode(uid)
	}
	for to, preds := range g.preds {
		for _, from := range preds {
			if from == to || !check.HasNode(from) || !check.HasNode(to) {
				continue
			}
			// AddEdge only fails on self edges or unknown nodes, both
			// filtered out just above.
			_ = check.AddEdge(from, to)
		}
	}
	if err := check.DetectCycles(); err != nil {
		g.issues.AddError(g.metadata.Context(), "References are cyclic: %s.", err)
	}
}

func creatorNames(doc map[string]any) []string {
	var names []string
	for _, creator := range document.Objects(doc, keyCreator) {
		if name := document.String(creator, keyName); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// inlineData returns the record set's literal records, distinguishing a
// missing data key (nil) from an empty array.
func inlineData(raw map[string]any) []map[string]any {
	if _, ok := raw[keyData]; !ok {
		return nil
	}
	records := document.Objects(raw, keyData)
	if records == nil {
		records = []map[string]any{}
	}
	return records
}
