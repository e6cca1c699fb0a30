package structure

// RecordSet is a logical table assembled from distributions, or from a small
// inline record array.
type RecordSet struct {
	baseNode

	Description string
	// Keys name the field(s) identifying a record.
	Keys []string
	// Data holds the inline literal records, if any. A record set with
	// inline data has no upstream distribution dependency.
	Data []map[string]any
	// Fields are the record set's columns, in declaration order.
	Fields []*Field
}

// HasData reports whether the record set is backed by inline literal data.
func (r *RecordSet) HasData() bool {
	return r.Data != nil
}

// Check validates the record set's own properties.
func (r *RecordSet) Check() {
	r.assertHasMandatoryProperties(
		property{PropName, r.name},
	)
	r.assertHasOptionalProperties(
		property{PropDescription, r.Description},
	)
	if !r.HasData() && len(r.Fields) == 0 {
		r.addError("Node %q is a record set with neither data nor fields.", r.uid)
	}
}
