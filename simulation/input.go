package simulation

import (
	"errors"

	"github.com/Arrow-air/tool-simulation/eel"
	"github.com/Arrow-air/tool-simulation/simconfig"
)

// Input is a loaded simulation input. Exactly one field is set.
type Input struct {
	Log    *eel.Log
	Config *simconfig.Config
}

// Mode names the kind of run the input starts.
func (in Input) Mode() string {
	if in.Log != nil {
		return ModeEventLog
	}

	return ModeConfig
}

// LoadInput reads path as an event log first and as a config second.
// A file that cannot be read fails immediately; a file that is neither
// returns ErrUnrecognizedInput joined with both schema errors.
func LoadInput(path string) (Input, error) {
	log, eelErr := eel.Load(path)
	if eelErr == nil {
		return Input{Log: &log}, nil
	}

	if errors.Is(eelErr, eel.ErrReadFile) {
		return Input{}, eelErr
	}

	config, configErr := simconfig.Load(path)
	if configErr == nil {
		return Input{Config: &config}, nil
	}

	return Input{}, errors.Join(ErrUnrecognizedInput, eelErr, configErr)
}
