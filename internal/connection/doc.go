// Package connection implements the upstream feed connection.
//
// The Manager:
//   - Owns a single WebSocket connection to the analytics service
//   - Sends one subscribe request with the watchlist after each connect
//   - Reconnects after a fixed delay, indefinitely, until stopped
//   - Discards inbound frames while paused
//   - Forwards everything else, in arrival order, to the event router
package connection
