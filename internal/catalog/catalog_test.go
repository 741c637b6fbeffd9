package catalog

import (
	"testing"

	"github.com/relayforge/rescuedispatch/internal/config"
)

func straightThroughFiles() *config.Files {
	return &config.Files{
		Environment: config.DefaultEnvironment(),
		Responders: []config.ResponderRecord{
			{Name: "AMB", Count: 1, Speed: 2, X: 0, Y: 0},
		},
		EmergencyTypes: []config.EmergencyTypeRecord{
			{Name: "FIRE", Priority: 1, Requirements: []config.RequirementRecord{
				{ResponderType: "AMB", RequiredCount: 1, ServiceSeconds: 3},
			}},
		},
	}
}

func TestBuild(t *testing.T) {
	files := straightThroughFiles()
	files.Environment.Queue = "dispatch"

	cat, err := Build(files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cat.ResponderTypes) != 1 || len(cat.EmergencyTypes) != 1 {
		t.Fatalf("unexpected catalog: %+v", cat)
	}
	if idx, ok := cat.ResponderTypeIndex("AMB"); !ok || idx != 0 {
		t.Errorf("ResponderTypeIndex(AMB) = %d,%v", idx, ok)
	}
	if cat.EmergencyType("FIRE") == nil {
		t.Error("EmergencyType(FIRE) = nil")
	}
	if cat.EmergencyType("MISSING") != nil {
		t.Error("EmergencyType(MISSING) should be nil")
	}
}

func TestBuildRejectsUnknownResponderType(t *testing.T) {
	files := straightThroughFiles()
	files.Environment.Queue = "dispatch"
	files.EmergencyTypes[0].Requirements[0].ResponderType = "GHOST"

	if _, err := Build(files); err == nil {
		t.Fatal("expected error for unknown responder type reference")
	}
}

func TestBuildRejectsOutOfGridBase(t *testing.T) {
	files := straightThroughFiles()
	files.Environment.Queue = "dispatch"
	files.Responders[0].X = files.Environment.Width + 5

	if _, err := Build(files); err == nil {
		t.Fatal("expected error for out-of-grid responder base")
	}
}

func TestBuildRejectsOverRequestedCount(t *testing.T) {
	files := straightThroughFiles()
	files.Environment.Queue = "dispatch"
	files.EmergencyTypes[0].Requirements[0].RequiredCount = 5

	if _, err := Build(files); err == nil {
		t.Fatal("expected error when a requirement exceeds the configured instance count")
	}
}
