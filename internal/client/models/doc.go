// Package models defines the client-side data model: the signed-in identity,
// the session, token claims, and the back-office resources (merchants,
// movements, reports, users) exchanged with the REST backend.
package models
