// Package handler implements the frontend's single route: relay the backend
// message with a fixed prefix, or answer with a generic 500.
package handler
