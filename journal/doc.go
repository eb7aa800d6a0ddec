// Package journal records the traffic a simulation run sends to the cargo service.
//
// A RecordingGateway decorates any cargo.Gateway and appends one Entry per call
// to a Recorder, stamped with simulated time and attributed to the run and the
// customer that made it. Entries are written for analysis and for exporting a
// replayable event log; a run never reads them back.
package journal
