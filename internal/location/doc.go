// Package location looks up the external representation of a pipeline hosted
// by a remote code location.
//
// A run records where its code came from (its Origin). WithExternalPipeline
// opens that location through a Dialer, fetches the requested pipeline
// subset, and releases the location when the caller's function returns.
// SocketDialer reaches locations over socket.io.
package location
