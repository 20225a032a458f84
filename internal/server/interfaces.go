package server

// Server runs the accounts service transports and its background workers.
type Server interface {
	// RunServer blocks until a stop signal arrives and everything has
	// stopped.
	RunServer()

	// Shutdown stops the HTTP and gRPC listeners. Workers are stopped by
	// cancelling the context given to RunServer's loop.
	Shutdown()
}
