package service

import (
	"bytes"
	"testing"

	"github.com/ludo-technologies/solidscan/domain"
)

func TestNewProgressManager_Disabled(t *testing.T) {
	pm := NewProgressManager(false)
	if pm.IsInteractive() {
		t.Error("expected non-interactive progress manager when disabled")
	}
}

func TestIsInteractiveEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractiveEnvironment() {
		t.Error("CI runs should never be interactive")
	}
	if NewProgressManager(true).IsInteractive() {
		t.Error("expected no-op manager under CI")
	}
}

func TestNoOpProgressManager(t *testing.T) {
	pm := &NoOpProgressManager{}

	task := pm.StartTask("Checking files", 100)
	if task == nil {
		t.Fatal("expected non-nil task from StartTask")
	}

	// None of these may panic
	task.Increment(10)
	task.Describe("shapes.py")
	task.Complete()
	pm.Close()
}

func TestProgressManagerImpl_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	pm := newProgressManager(&buf)

	task := pm.StartTask("Checking files", 2)
	task.Increment(1)
	task.Describe("shapes.py")
	task.Increment(1)
	pm.Close()

	if !pm.IsInteractive() {
		t.Error("expected interactive manager")
	}
	if pm.tasks != nil {
		t.Error("Close should release tasks")
	}
}

func TestProgressManagerImpl_Interface(t *testing.T) {
	var _ domain.ProgressManager = &ProgressManagerImpl{}
	var _ domain.TaskProgress = &TaskProgressImpl{}
	var _ domain.ProgressManager = &NoOpProgressManager{}
	var _ domain.TaskProgress = &NoOpTaskProgress{}
}
