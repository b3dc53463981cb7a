// Package imgur talks to the Imgur API: OAuth token refresh, image upload
// and album creation.
//
// Resource calls rejected with 401 or 403 are retried exactly once after a
// refresh-token exchange. A failed exchange aborts the call.
package imgur
