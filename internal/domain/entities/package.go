// Package entities defines the records a gate run produces: packages,
// distribution artifacts, check results, the gate report and the publish set.
package entities

// Category classifies a package for publishing purposes
type Category string

// Package categories. Only CategoryPublic packages may be published.
const (
	CategoryPublic   Category = "PUBLIC"
	CategoryInternal Category = "INTERNAL"
	CategoryCIOnly   Category = "CI-ONLY"
)

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryPublic, CategoryInternal, CategoryCIOnly:
		return true
	default:
		return false
	}
}

// Package is a candidate Python package found during discovery
type Package struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Path     string   `json:"path"`
	Category Category `json:"category" jsonschema:"enum=PUBLIC,enum=INTERNAL,enum=CI-ONLY"`
}

// IsPublic returns true if the package may enter the publish set
func (p *Package) IsPublic() bool {
	return p.Category == CategoryPublic
}
