// Package server implements the HTTP server using Echo framework.
//
// Routes: transcription intake, bet placement and resolution, the live bet
// board, the websocket duplex channel, health probes, and Prometheus metrics.
// Connection limits gate the websocket endpoint; a shared per-IP token bucket
// throttles the REST surface.
package server
