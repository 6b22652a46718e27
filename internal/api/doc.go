// Package api exposes job submission and status over HTTP. The daemon mounts
// the router; the CLI talks to it through the Client in this package.
package api
