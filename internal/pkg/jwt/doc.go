// Package jwt issues and verifies the HS512 access token handed out when a
// sign-in flow is authenticated, and carries the verified claims through
// request contexts.
package jwt
