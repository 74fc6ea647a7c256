// Package review implements the queue controller behind the operator
// console: filter state, the queue snapshot and cursor, the bulk selection
// set, and the decision dispatcher with its stale-response guards.
//
// The controller is pure state plus transition functions. Network calls are
// prepared as tickets: Begin* cancels whatever the category had in flight,
// pins the new request to a fresh epoch, and hands back a ticket whose Run
// performs the blocking call; Finish* applies the result only if the ticket's
// epoch is still current. The caller (the terminal surface, or a test) owns
// scheduling, so every interleaving is reproducible without mounting UI.
package review
