// Package jwt verifies Supabase session tokens (HS256, signed with the
// project's JWT secret) using github.com/golang-jwt/jwt/v5 and exposes the
// verified claims through the request context.
//
// Middleware is optional by default: requests without an Authorization
// header pass through anonymously, while a present but invalid token is
// rejected with 401. RequireClaims turns a route into an authenticated one.
package jwt
