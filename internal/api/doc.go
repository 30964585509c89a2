// Package api provides the HTTP client for the PLUS ULTRA REST backend.
//
// # Overview
//
// Client wraps net/http with the conventions the backend expects: JSON
// bodies, Spanish field names, Mongo-style "_id" identities and a bearer
// token on authenticated calls. Every method takes a context and returns
// typed results or an error; nothing here retries.
//
// # Endpoints
//
//	GET    /juegos?busqueda&genero&plataforma&completado&ordenarPor   ListGames
//	POST   /juegos                                                    CreateGame
//	PUT    /juegos/{id}                                               UpdateGame, SetCompleted
//	DELETE /juegos/{id}                                               DeleteGame
//	GET    /reseñas/juego/{gameId}                                    ListReviews
//	POST   /reseñas                                                   CreateReview
//	PUT    /reseñas/{id}                                              UpdateReview
//	DELETE /reseñas/{id}                                              DeleteReview
//	GET    /search-game/{title}                                       SearchGames
//	GET    /stats/dashboard                                           DashboardStats
//	GET    /feed                                                      Feed
//	POST   /friends/add, GET /friends/list                            AddFriend, ListFriends
//	POST   /auth/login, /auth/register                                Login, Register
//	PUT    /auth/profile                                              UpdateProfile
//	POST   /auth/profile/photo (multipart "photo")                    UploadAvatar
//
// Paths are relative to the configured API root (default
// http://localhost:3000/api). Path segments are escaped one at a time, so
// ids and search titles can contain any character.
//
// # Credentials
//
// The bearer token travels in the request context:
//
//	ctx = api.WithCredential(ctx, session.Token)
//	games, err := client.ListGames(ctx, filters.Values())
//
// The token is read when the request is built. A command prepared before a
// logout still carries the token it was issued with, and a response never
// changes which credential a request used.
//
// # Request Metadata
//
// Each request carries Accept: application/json, a plusultra User-Agent and
// an X-Request-ID (UUID v4). Requests and their status codes are logged at
// debug level with zerolog, keyed by the request id.
//
// # Errors
//
//   - Transport failures wrap the net/http error: "execute request: ..."
//   - Non-2xx responses return *Error with the method, path, status and the
//     server's message taken from {"error": ...} or {"message": ...}
//   - Undecodable bodies wrap the JSON error: "decode response: ..."
//
// Message(err, fallback) picks the text to show in the UI.
//
// # Testing
//
// Service is implemented by *Client so callers can substitute a fake. The
// package tests run the real client against a chi router on httptest.
package api
