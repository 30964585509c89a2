// Package session holds the signed-in user and their bearer credential.
//
// The Holder is the single writer of the session blob (a small JSON file,
// {"token": ..., "user": {...}}). Load runs once at startup; Login, Register,
// UpdateProfile and UploadAvatar replace or merge the session only after the
// backend accepts the request, and Logout removes it.
//
// Requests capture the credential when they are issued, via Authorize or
// inside the profile mutations. A profile response that lands after the
// session was replaced is dropped with ErrSessionChanged.
//
// Credentials and passwords are never logged; events carry the nickname.
package session
