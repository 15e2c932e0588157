package interfaces

// Service is the outer surface of the daemon.
type Service interface {
	Start() error
	Stop()
}
