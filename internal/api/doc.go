// Package api is the HTTP client for the enforcement review API: queue
// listing, decision submission, and the audit log endpoints. It implements
// review.Backend and audit.Sources. Every request carries the caller's
// context so in-flight calls can be aborted; 4xx bodies carry a message that
// is surfaced to the operator verbatim.
package api
