package service

// Controller provides an abstraction over the host's service manager
// for testability. The refresh workflow only stops and verifies; start
// and restart serve the service command.
type Controller interface {
	Stop(name string) error
	Start(name string) error
	Restart(name string) error
	IsActive(name string) (bool, error)
}
