// Package auth is the identity boundary: credential storage, password
// hashing, cookie sessions and the middleware that resolves a request to a
// (userID, authenticated) pair. The library engine never sees any of this;
// it only receives the opaque user id.
package auth
