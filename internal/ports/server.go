package ports

// Server defines the lifecycle of a long-running surface such as the HTTP
// API server.
type Server interface {
	// Start begins serving. It must not block.
	Start() error

	// Stop shuts the surface down.
	Stop() error
}
