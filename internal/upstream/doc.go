// Package upstream performs the frontend's single outbound call to the
// backend message API and reports every failure as ErrBackendUnavailable.
package upstream
