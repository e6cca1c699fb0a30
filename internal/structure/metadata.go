package structure

// Metadata is the dataset root node. It owns, by containment, the
// distribution and record-set nodes created from the same document.
type Metadata struct {
	baseNode

	Description string
	Citation    string
	License     string
	URL         string
	Version     string
	Creators    []string
}

// Check validates the dataset's own properties.
func (m *Metadata) Check() {
	m.assertHasMandatoryProperties(
		property{PropName, m.name},
	)
	m.assertHasOptionalProperties(
		property{PropCitation, m.Citation},
		property{PropLicense, m.License},
		property{PropURL, m.URL},
	)
}
