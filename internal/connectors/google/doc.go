// Package google provides shared infrastructure for Google API connectors.
//
// It builds per-request bearer clients from an access token and maps
// googleapi errors (401, 403, 429) onto domain provider errors, so the
// Drive adapter never holds credentials between calls.
//
// # OAuth2 Scopes
//
// The Drive adapter needs only:
//   - https://www.googleapis.com/auth/drive.readonly (restricted)
//
// Token acquisition is the caller's concern; this package only consumes
// an access token.
package google
