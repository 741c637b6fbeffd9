// Package config parses the three plain-text configuration files consumed
// by the dispatcher at startup: environment.txt (key=value pairs),
// rescuers.txt (bracketed responder-type records), and emergency.txt
// (bracketed emergency-type records with requirement lists). None of these
// are TOML — values are unquoted barewords and records use bracket
// delimiters rather than sections — so, unlike the teacher this module was
// built from, configuration here is parsed with bespoke line scanners
// rather than a generic decoder.
package config

import "fmt"

// Environment holds the knobs parsed from environment.txt.
type Environment struct {
	Queue string

	Height int
	Width  int

	// PriorityTimeout is indexed by priority (0, 1, 2).
	PriorityTimeout [3]int

	AgingStart int
	AgingStep  int
}

// DefaultEnvironment returns the documented defaults for every knob that
// has one. Queue has no default; it is required.
func DefaultEnvironment() Environment {
	return Environment{
		Height:          10,
		Width:           10,
		PriorityTimeout: [3]int{180, 120, 60},
		AgingStart:      90,
		AgingStep:       30,
	}
}

// ResponderRecord is one parsed line of rescuers.txt.
type ResponderRecord struct {
	Name  string
	Count int
	Speed int
	X, Y  int
}

// RequirementRecord is one "type:count,seconds" requirement within an
// EmergencyTypeRecord.
type RequirementRecord struct {
	ResponderType  string
	RequiredCount  int
	ServiceSeconds int
}

// EmergencyTypeRecord is one parsed line of emergency.txt.
type EmergencyTypeRecord struct {
	Name         string
	Priority     int
	Requirements []RequirementRecord
}

// Files is the fully parsed, not-yet-validated configuration loaded from
// the three well-known files in a working directory.
type Files struct {
	Environment    Environment
	Responders     []ResponderRecord
	EmergencyTypes []EmergencyTypeRecord
}

// Load reads environment.txt, rescuers.txt and emergency.txt from dir.
func Load(dir string) (*Files, error) {
	env, err := LoadEnvironment(dir + "/environment.txt")
	if err != nil {
		return nil, fmt.Errorf("loading environment.txt: %w", err)
	}

	responders, err := LoadResponders(dir + "/rescuers.txt")
	if err != nil {
		return nil, fmt.Errorf("loading rescuers.txt: %w", err)
	}

	emergencyTypes, err := LoadEmergencyTypes(dir + "/emergency.txt")
	if err != nil {
		return nil, fmt.Errorf("loading emergency.txt: %w", err)
	}

	return &Files{
		Environment:    env,
		Responders:     responders,
		EmergencyTypes: emergencyTypes,
	}, nil
}
