package structure

// FileObject describes one concrete downloadable file of the dataset.
type FileObject struct {
	baseNode

	Description    string
	ContentURL     string
	EncodingFormat string
	SHA256         string
	// ContainedIn references other distribution nodes this file lives in,
	// e.g. an archive. When set, contentUrl and sha256 may come from the
	// container instead.
	ContainedIn []string
}

// Check validates the file object's own properties.
func (f *FileObject) Check() {
	mandatory := []property{
		{PropName, f.name},
		{PropEncodingFormat, f.EncodingFormat},
	}
	if len(f.ContainedIn) == 0 {
		mandatory = append(mandatory,
			property{PropContentURL, f.ContentURL},
			property{PropSHA256, f.SHA256},
		)
	}
	f.assertHasMandatoryProperties(mandatory...)
	f.assertHasOptionalProperties(
		property{PropDescription, f.Description},
	)
}

// FileSet describes a pattern selecting zero or more files out of another
// distribution, typically an archive.
type FileSet struct {
	baseNode

	Description    string
	EncodingFormat string
	// Includes is the glob pattern selecting files within the container.
	Includes    string
	ContainedIn []string
}

// Check validates the file set's own properties.
func (f *FileSet) Check() {
	f.assertHasMandatoryProperties(
		property{PropName, f.name},
		property{PropIncludes, f.Includes},
		property{PropEncodingFormat, f.EncodingFormat},
	)
}
