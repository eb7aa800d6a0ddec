// Package settings resolves the runtime settings of the simulator.
//
// Values come, in order of precedence, from command-line flags, SIM_* environment
// variables (dots become underscores, e.g. SIM_JOURNAL_DSN), an optional settings
// file given with --settings, and finally the defaults.
package settings
