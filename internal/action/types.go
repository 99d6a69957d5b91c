package action

// Descriptor describes whether and how a plugin-contributed action may be
// invoked. It mirrors Gerrit's ActionInfo.
type Descriptor struct {
	Method  string `yaml:"method,omitempty" json:"method,omitempty"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Title   string `yaml:"title,omitempty" json:"title,omitempty"`
	Enabled bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// Config is the subset of a project's ConfigInfo the delete flow needs
type Config struct {
	Actions map[string]Descriptor `yaml:"actions" json:"actions"`
}
