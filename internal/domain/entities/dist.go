package entities

// Distribution archive suffixes
const (
	WheelSuffix = ".whl"
	SDistSuffix = ".tar.gz"
)

// DistFile is a single distribution archive and its content digest
type DistFile struct {
	Path   string `json:"-"`
	File   string `json:"file"`
	SHA256 string `json:"sha256,omitempty"`
}

// DistArtifacts describes the archives found in a package's dist directory.
// Either side may be nil when no matching archive exists.
type DistArtifacts struct {
	Dir       string    `json:"-"`
	DirExists bool      `json:"-"`
	SDist     *DistFile `json:"sdist,omitempty"`
	Wheel     *DistFile `json:"wheel,omitempty"`
}

// HasSDist returns true if a source distribution is present
func (d *DistArtifacts) HasSDist() bool {
	return d != nil && d.SDist != nil
}

// HasWheel returns true if a wheel is present
func (d *DistArtifacts) HasWheel() bool {
	return d != nil && d.Wheel != nil
}

// IsComplete returns true when both a wheel and an sdist are present
func (d *DistArtifacts) IsComplete() bool {
	return d.HasSDist() && d.HasWheel()
}

// Missing lists the absent archive kinds, wheel first
func (d *DistArtifacts) Missing() []string {
	var missing []string
	if !d.HasWheel() {
		missing = append(missing, "wheel")
	}
	if !d.HasSDist() {
		missing = append(missing, "sdist")
	}
	return missing
}
