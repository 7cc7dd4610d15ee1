// Package harness provides compstate fixture and golden-snapshot test
// tooling for scenario-style tests of internal/facade.
//
// Grounded on the teacher's internal/harness package: the same
// "build fixture, evaluate, compare against a golden file" shape the
// teacher used for CUE concept/sync scenarios (its scenario.go +
// golden.go), retargeted from YAML-described action flows over a
// compiled concept spec to YAML-described compstate directories over a
// loaded Competition. The teacher's assertion/principle machinery
// (trace_contains/trace_order/operational-principle scenario extraction)
// has no CompCore analogue — there is no action trace or CUE principle
// here to assert against — so only the fixture-building and
// goldie-snapshot halves of the teacher package survive, rewritten for
// this domain.
package harness
