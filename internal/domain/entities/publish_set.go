package entities

// EcosystemPyPI is the ecosystem tag of the publish set
const EcosystemPyPI = "pypi"

// PublishEntry is a package admitted to the publish set together with the
// digests recorded as evidence
type PublishEntry struct {
	Package
	ProofSHA256 string         `json:"proofSha256,omitempty"`
	Dist        *DistArtifacts `json:"dist,omitempty"`
}

// PublishSet lists the PUBLIC packages of a run in discovery order
type PublishSet struct {
	Ecosystem string         `json:"ecosystem"`
	Packages  []PublishEntry `json:"packages"`
}

// NewPublishSet creates an empty PyPI publish set
func NewPublishSet() *PublishSet {
	return &PublishSet{
		Ecosystem: EcosystemPyPI,
		Packages:  []PublishEntry{},
	}
}

// Add appends a package. Non-PUBLIC packages are refused.
func (s *PublishSet) Add(pkg Package) bool {
	if !pkg.IsPublic() {
		return false
	}
	s.Packages = append(s.Packages, PublishEntry{Package: pkg})
	return true
}

// Entry returns the entry for a package name, or nil
func (s *PublishSet) Entry(name string) *PublishEntry {
	for i := range s.Packages {
		if s.Packages[i].Name == name {
			return &s.Packages[i]
		}
	}
	return nil
}

// Names returns the package names in publish order
func (s *PublishSet) Names() []string {
	names := make([]string, len(s.Packages))
	for i, p := range s.Packages {
		names[i] = p.Name
	}
	return names
}
