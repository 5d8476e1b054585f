/*
Package planner talks to the remote planning service.

Client wraps the two-endpoint HTTP contract (start a plan run, fetch its
state). Poller follows one run at a fixed interval until the service reports
a terminal state, treating 404s and transient failures as "skip this tick,
keep polling". The poll loop is owned by an explicit cancellation context so
teardown is guaranteed on every exit path.
*/
package planner
