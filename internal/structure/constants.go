package structure

// Type tags dispatching a raw document node to its typed variant.
const (
	TypeDataset    = "sc:Dataset"
	TypeFileObject = "sc:FileObject"
	TypeFileSet    = "sc:FileSet"
	TypeRecordSet  = "ml:RecordSet"
	TypeField      = "ml:Field"
)

// Canonical property names, used verbatim in issue messages so they match the
// vocabulary the document is written against.
const (
	PropName           = "https://schema.org/name"
	PropDescription    = "https://schema.org/description"
	PropCitation       = "https://schema.org/citation"
	PropLicense        = "https://schema.org/license"
	PropURL            = "https://schema.org/url"
	PropVersion        = "https://schema.org/version"
	PropContentURL     = "https://schema.org/contentUrl"
	PropEncodingFormat = "https://schema.org/encodingFormat"
	PropSHA256         = "https://schema.org/sha256"
	PropDataType       = "http://mlcommons.org/schema/dataType"
	PropIncludes       = "http://mlcommons.org/schema/includes"
	PropSource         = "http://mlcommons.org/schema/source"
)

// Data types a field may declare.
const (
	DataTypeText    = "sc:Text"
	DataTypeInteger = "sc:Integer"
	DataTypeFloat   = "sc:Float"
	DataTypeBoolean = "sc:Boolean"
	DataTypeURL     = "sc:URL"
	DataTypeDate    = "sc:Date"
	DataTypeImage   = "sc:ImageObject"
)

// Document keys. These are the compact-form spellings of the wire contract;
// anything else in the document is ignored.
const (
	keyType           = "@type"
	keyName           = "name"
	keyDescription    = "description"
	keyCitation       = "citation"
	keyLicense        = "license"
	keyURL            = "url"
	keyVersion        = "version"
	keyCreator        = "creator"
	keyDistribution   = "distribution"
	keyRecordSet      = "recordSet"
	keyField          = "field"
	keyContentURL     = "contentUrl"
	keyEncodingFormat = "encodingFormat"
	keySHA256         = "sha256"
	keyContainedIn    = "containedIn"
	keyIncludes       = "includes"
	keyKey            = "key"
	keyData           = "data"
	keyDataType       = "dataType"
	keySource         = "source"
	keyReferences     = "references"
)
