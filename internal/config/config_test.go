package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "environment.txt", "queue=dispatch\nheight=20\nwidth=15\npriority0_timeout=60\n")

	env, err := LoadEnvironment(filepath.Join(dir, "environment.txt"))
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if env.Queue != "dispatch" {
		t.Errorf("Queue = %q, want %q", env.Queue, "dispatch")
	}
	if env.Height != 20 || env.Width != 15 {
		t.Errorf("Height/Width = %d/%d, want 20/15", env.Height, env.Width)
	}
	if env.PriorityTimeout[0] != 60 {
		t.Errorf("PriorityTimeout[0] = %d, want 60", env.PriorityTimeout[0])
	}
	// defaults not overridden
	if env.PriorityTimeout[1] != 120 || env.PriorityTimeout[2] != 60 {
		t.Errorf("defaults not preserved: %v", env.PriorityTimeout)
	}
	if env.AgingStart != 90 || env.AgingStep != 30 {
		t.Errorf("aging defaults not preserved: start=%d step=%d", env.AgingStart, env.AgingStep)
	}
}

func TestLoadEnvironmentRequiresQueue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "environment.txt", "height=10\n")

	if _, err := LoadEnvironment(filepath.Join(dir, "environment.txt")); err == nil {
		t.Fatal("expected error for missing queue, got nil")
	}
}

func TestLoadEnvironmentRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "environment.txt", "queue=q\nbogus=1\n")

	if _, err := LoadEnvironment(filepath.Join(dir, "environment.txt")); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestLoadResponders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rescuers.txt", "[AMB][2][3][1;1]\n[FIRE][1][1][0;0]\n")

	recs, err := LoadResponders(filepath.Join(dir, "rescuers.txt"))
	if err != nil {
		t.Fatalf("LoadResponders: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Name != "AMB" || recs[0].Count != 2 || recs[0].Speed != 3 || recs[0].X != 1 || recs[0].Y != 1 {
		t.Errorf("unexpected first record: %+v", recs[0])
	}
}

func TestLoadRespondersRejectsBadCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rescuers.txt", "[AMB][0][3][1;1]\n")

	if _, err := LoadResponders(filepath.Join(dir, "rescuers.txt")); err == nil {
		t.Fatal("expected error for count < 1, got nil")
	}
}

func TestLoadEmergencyTypes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "emergency.txt", "[FIRE][1] AMB:1,3\n[CRASH][2] AMB:2,5; FIRE:1,10\n")

	recs, err := LoadEmergencyTypes(filepath.Join(dir, "emergency.txt"))
	if err != nil {
		t.Fatalf("LoadEmergencyTypes: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Name != "FIRE" || recs[0].Priority != 1 || len(recs[0].Requirements) != 1 {
		t.Errorf("unexpected first record: %+v", recs[0])
	}
	if len(recs[1].Requirements) != 2 {
		t.Errorf("expected 2 requirements, got %d", len(recs[1].Requirements))
	}
}

func TestLoadEmergencyTypesRejectsBadPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "emergency.txt", "[FIRE][3] AMB:1,3\n")

	if _, err := LoadEmergencyTypes(filepath.Join(dir, "emergency.txt")); err == nil {
		t.Fatal("expected error for priority out of range, got nil")
	}
}

func TestLoadEmergencyTypesRequiresAtLeastOneRequirement(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "emergency.txt", "[FIRE][1]\n")

	if _, err := LoadEmergencyTypes(filepath.Join(dir, "emergency.txt")); err == nil {
		t.Fatal("expected error for no requirements, got nil")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "environment.txt", "queue=dispatch\n")
	writeFile(t, dir, "rescuers.txt", "[AMB][1][2][0;0]\n")
	writeFile(t, dir, "emergency.txt", "[FIRE][1] AMB:1,3\n")

	files, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if files.Environment.Queue != "dispatch" {
		t.Errorf("Queue = %q", files.Environment.Queue)
	}
	if len(files.Responders) != 1 || len(files.EmergencyTypes) != 1 {
		t.Errorf("unexpected file contents: %+v", files)
	}
}
