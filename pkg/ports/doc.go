/*
Package ports defines the driven ports (interfaces) for the Voyant planning
service.

These interfaces decouple the service core from external implementations,
allowing plan runs to be kept in memory for a single process or in Redis when
several instances share state.

# Key Interfaces

  - PlanStore: Responsible for persisting and loading PlanState snapshots.
*/
package ports
