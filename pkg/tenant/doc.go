// Package tenant carries the store (tenant) id through a request.
//
// Store resolution itself belongs to the authentication layer in front of
// this service; the id arrives already resolved, by default in the
// X-Store-ID header. Middleware validates it and puts it in the request
// context, where IDFromContext reads it back. Every workflow read and write
// is scoped to that id.
package tenant
