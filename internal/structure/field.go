package structure

// Field is one column of a record set.
type Field struct {
	baseNode

	Description string
	// DeclaredDataType is the data type written on the field itself, possibly
	// empty when it is meant to be inherited from a predecessor field.
	DeclaredDataType string
	// Source points at the distribution or field the column is read from.
	Source Source
	// References is the secondary reference used to join this field's source
	// against another node.
	References Source

	// recordSet is the owning record set.
	recordSet *RecordSet
	// dataType is the resolved data type, filled in by the builder.
	dataType string
}

// RecordSet returns the owning record set.
func (f *Field) RecordSet() *RecordSet {
	return f.recordSet
}

// DataType returns the field's resolved data type: the declared one, or the
// one inherited from a predecessor field. Empty only if resolution failed,
// which the builder reports as an issue.
func (f *Field) DataType() string {
	return f.dataType
}

// Check validates the field's own properties.
func (f *Field) Check() {
	f.assertHasMandatoryProperties(
		property{PropName, f.name},
	)
	f.assertHasOptionalProperties(
		property{PropDescription, f.Description},
	)
}

// resolveDataType walks the field and its predecessor fields for a declared
// data type. The result is cached on the node; a field with no declared type
// anywhere in its predecessor chain is an issue.
func (f *Field) resolveDataType(seen map[string]bool) string {
	if f.dataType != "" {
		return f.dataType
	}
	if f.DeclaredDataType != "" {
		f.dataType = f.DeclaredDataType
		return f.dataType
	}
	if seen[f.uid] {
		return ""
	}
	seen[f.uid] = true
	for _, pred := range f.graph.Predecessors(f.uid) {
		if parent, ok := pred.(*Field); ok {
			if dataType := parent.resolveDataType(seen); dataType != "" {
				f.dataType = dataType
				return f.dataType
			}
		}
	}
	f.addError("The field does not specify any %s, neither does any of its predecessor.", PropDataType)
	return ""
}
