/*
Package domain contains the core domain models for Voyant.

It defines the travel-search form assembled by the wizard, the server-owned
plan-run state the poller tracks, and the itinerary data extracted from a
completed run. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - TravelForm: The search parameters collected across the wizard steps.
  - PlanState: The remote service's snapshot of one plan run (server-driven).
  - TravelData: Flight and accommodation details extracted from a terminal run.
*/
package domain
