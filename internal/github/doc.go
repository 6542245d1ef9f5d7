// Package github uploads store entries as GitHub Actions repository secrets.
//
// A sync authenticates with the store's bootstrap secret, fetches the
// repository public key, seals each value with a NaCl anonymous sealed box
// and upserts it. The bootstrap secret itself is never uploaded.
//
// Requests go through go-github on top of a go-retryablehttp transport.
// Connection errors, 429 and 5xx responses are retried with bounded
// exponential backoff; authentication and authorization failures are not.
//
// Failure handling:
//
//   - 401, 403 or 404 on the public key fetch: ErrAuth, nothing uploaded
//   - unreachable API, 5xx after retries, rate limiting: ErrNetwork, nothing uploaded
//   - a single secret failing: recorded in SyncReport.Failed, siblings continue,
//     and the call returns *PartialSyncError
package github
