// Package eel replays an External Event Log (EEL) against simulated time.
//
// An EEL file is JSON:
//
//	{"events": [
//	  {"event": {"CustomerEvent": {"CargoRequest": {"CargoCreate": {...}}}},
//	   "timestamp": "2022-10-01T12:00:00"}
//	]}
//
// The variants of a CargoRequest are CargoCreate (a flight query),
// CargoConfirm and CargoCancel. Events must be sorted by timestamp.
//
// A Player releases due events in order, exactly once, to a Dispatcher.
// FromEntries and FileRecorder turn a traffic journal back into an EEL.
package eel
