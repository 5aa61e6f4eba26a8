// Package session coordinates authentication state for an event-management
// admin product against an external identity/document-store backend.
//
// Session lifecycle:
//   - Coordinator owns the process-wide session state. It registers for
//     provider session-change notifications, resolves (or lazily creates) the
//     matching UserProfile, and publishes ordered SessionState snapshots to
//     subscribers. All mutation funnels through the coordinator; everything
//     else holds read-only snapshots.
//   - Guard is a pure decision function over session state and required
//     roles. RouteGuard adapts it to Fiber middleware: pending while loading,
//     redirect to login when unauthenticated, redirect to unauthorized on
//     role mismatch.
//
// Error handling:
//   - Provider failures are classified into a closed taxonomy and translated
//     to localized user-facing messages via UserMessage. The reactive
//     session-change path has no caller, so resolution errors there are
//     logged and the state falls back to unauthenticated; explicit Login
//     calls propagate the same errors to the caller.
//
// Storage:
//   - ProfileStore abstracts the document store. Profiles is the bun-backed
//     implementation; provider/localauth supplies a password-verifying
//     IdentityProvider for deployments without a hosted backend.
package session
