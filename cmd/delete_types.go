package cmd

import "io"

// DeleteConfig holds configuration for the delete command
type DeleteConfig struct {
	RepoName    string
	GerritURL   string
	User        string
	Password    string
	PluginName  string
	ActionsFile string

	Force           bool
	Preserve        bool
	YesReallyDelete bool
	OpenBrowser     bool

	Interactive bool
	DryRun      bool

	// Out receives everything the command prints
	Out io.Writer
}

// DeleteResult describes a finished delete
type DeleteResult struct {
	RepoName string
	Force    bool
	Preserve bool
	// Target is where the user was sent afterwards
	Target string
}
