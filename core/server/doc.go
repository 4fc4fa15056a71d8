// Package server holds the HTTP server configuration.
//
// The serve command handles the actual server startup; this package only
// defines the configuration structure embedded by core/config, so features
// and middleware can validate server settings without importing the command
// layer.
package server
