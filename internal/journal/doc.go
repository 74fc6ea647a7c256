// Package journal persists a local record of every decision the operator
// applies: what was acted on, which action, and how the server responded.
// The journal is best-effort — a write failure never blocks or fails a
// decision — and exists for the console's recent-actions strip and for
// after-the-fact reconciliation when a shift is disputed.
package journal
