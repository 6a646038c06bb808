// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware for the REST API
// over buildings, rooms, tenants, room facilities and meters. Handlers only
// decode, delegate to the service layer and encode; domain rules never live
// here.
package http
