// Package testdoubles provides fakes and spies shared by the simulation tests.
//
//   - FakeGateway: scriptable cargo.Gateway that records every call
//   - ManualWallClock: a wall clock that only moves when told to
//   - LoggerSpy: captures Logger and ContextualLogger calls
//   - MetricsCollectorSpy: captures metrics recording calls
//   - TracingCollectorSpy: captures spans with their start and end attributes
package testdoubles
