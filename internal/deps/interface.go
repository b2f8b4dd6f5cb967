package deps

// Syncer provides an abstraction over the dependency syncer for
// testability. Sync resolves and installs the application's declared
// dependencies into its environment.
type Syncer interface {
	Sync() error
}
