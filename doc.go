/*
Package voyant implements an interactive travel-search wizard over a remote
AI planning service.

The Wizard is a linear five-step state controller (route, dates, preferences,
processing, results). It assembles a travel form field by field, submits it to
the planning service, and follows the resulting plan run via a poller until
the service reports a terminal state, at which point the results step becomes
active. The Runner drives a Wizard over plain reader/writer IO so any
frontend (terminal, tests, scripts) can host it.

Subpackages: pkg/planner (service client and poller), pkg/result (terminal
output normalization), pkg/domain (core models), and a development harness
for the service itself under internal/.
*/
package voyant
