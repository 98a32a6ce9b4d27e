// Package httpserver owns the lifecycle of a single net/http server.
package httpserver
