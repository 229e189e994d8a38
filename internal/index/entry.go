package index

// ModuleIDPrefix marks the canonical identifier of a module-level
// section. Registry keys have it stripped so a module and references to
// it resolve through one identifier.
const ModuleIDPrefix = "module-"

// descTypes is the closed set of documentable node types that produce
// registry entries.
var descTypes = map[string]bool{
	"data":         true,
	"function":     true,
	"exception":    true,
	"class":        true,
	"attribute":    true,
	"property":     true,
	"method":       true,
	"staticmethod": true,
	"classmethod":  true,
	"type":         true,
	"module":       true,
}

// IsDescType reports whether t is one of the documentable entity types.
func IsDescType(t string) bool {
	return descTypes[t]
}

// Entry is the persisted record for one documented API entity. Entries
// are immutable once registered; reprocessing a document replaces them
// wholesale.
type Entry struct {
	FullName string   `json:"fullname"`
	Kind     string   `json:"kind"`
	RefID    string   `json:"refid"`
	Doc      string   `json:"doc"`
	FullDocs string   `json:"full_docs"`
	Children []string `json:"children,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

// Section records one entity promoted to page-top-level status.
type Section struct {
	Doc      string `json:"doc"`
	FullName string `json:"fullname"`
	RefID    string `json:"refid"`
}
