// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - POST /rooms, GET /rooms, GET /rooms/{id}, PUT /rooms/{id}, DELETE /rooms/{id}:
//     room registry endpoints exchanging the `roomDTO` payload defined in
//     room_handler.go. Listings annotate each room with `reserved_today`.
//   - GET /rooms/search?name=&min_capacity=&projector=: filtered room listing.
//   - GET /rooms/{id}/reservations, POST /rooms/{id}/reservations: the room with
//     its upcoming reservations, and booking a date. Payloads are defined in
//     reservation_handler.go.
//   - GET /healthz: storage liveness.
//
// Validation failures answer 422 with an `errors` map, conflicts 409 and
// unknown rooms 404. Rejected reservations echo the room and its upcoming
// reservations so a client can redraw the booking form.
package http
