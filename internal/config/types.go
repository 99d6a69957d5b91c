package config

// Config is the delete-project plugin configuration served by `delete-repo serve`
type Config struct {
	// PluginName forms the action id "{pluginName}~delete"
	PluginName string `yaml:"pluginName"`
	// BasePath holds the bare repositories, one "<name>.git" directory each
	BasePath        string `yaml:"basePath"`
	CanonicalWebURL string `yaml:"canonicalWebUrl,omitempty"`
	LogDir          string `yaml:"logDir,omitempty"`

	AllowDeletionOfReposWithTags bool     `yaml:"allowDeletionOfReposWithTags"`
	ArchiveDeletedRepos          bool     `yaml:"archiveDeletedRepos"`
	ArchiveFolder                string   `yaml:"archiveFolder,omitempty"`
	DeleteArchivedReposAfter     Duration `yaml:"deleteArchivedReposAfter"`
	ProtectedProjects            []string `yaml:"protectedProjects"`

	// Admins may delete any project. Empty means everyone may.
	Admins []string `yaml:"admins,omitempty"`
}
