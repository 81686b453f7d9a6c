package sim

import (
	"errors"
	"testing"

	"github.com/farmm/gantry-engine/internal/domain"
	"github.com/farmm/gantry-engine/internal/motion"
)

func testRobot() domain.RobotState {
	return domain.RobotState{
		ToolOffset: domain.Vec3{X: 0.2, Y: 0.2, Z: 0.1},
		Dimensions: domain.Vec3{X: 0.4, Y: 1, Z: 0.6},
	}
}

func waterTask() domain.Task {
	return domain.Task{
		ID:        1,
		Operation: "water",
		Toolhead:  "water_nozzle",
		Shape:     domain.PointShape(domain.Vec2{X: 0.5, Y: 0.2}),
	}
}

// stepUntilIdle advances the runtime until it reports idle, returning the
// number of steps taken.
func stepUntilIdle(t *testing.T, rt *Runtime, budget int) int {
	t.Helper()
	for i := 1; i <= budget; i++ {
		if err := rt.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if rt.Idle() {
			return i
		}
	}
	t.Fatalf("runtime not idle after %d steps", budget)
	return 0
}

func TestRuntime_PointTaskRunsToCompletion(t *testing.T) {
	rt := New(testRobot(), motion.DefaultParams())
	if !rt.Idle() {
		t.Fatal("fresh runtime is not idle")
	}
	if err := rt.Submit([]domain.Task{waterTask()}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rt.Idle() {
		t.Fatal("runtime idle with an unsliced task queued")
	}

	// Neutral (5) + frame (2) + over (2) + lower (6) + fire (5) + raise (6).
	steps := stepUntilIdle(t, rt, 100)
	if steps != 26 {
		t.Errorf("completed in %d steps, want 26", steps)
	}

	// The next refresh observes the drained count and retires the task.
	if err := rt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	snap := rt.Snapshot()
	if len(snap.Tasks) != 0 {
		t.Errorf("%d task(s) still active, want 0", len(snap.Tasks))
	}
	if snap.StatusText != "Inactive" {
		t.Errorf("StatusText = %q, want Inactive", snap.StatusText)
	}

	// Final pose: frame centered on the point, tool raised above it.
	robot := rt.Robot()
	if got, want := robot.FramePosition.X, 0.5-0.2; got != want {
		t.Errorf("FramePosition.X = %v, want %v", got, want)
	}
	if robot.ToolOffset.Z != 0.6 {
		t.Errorf("ToolOffset.Z = %v, want 0.6 (raised)", robot.ToolOffset.Z)
	}
}

func TestRuntime_StatusProgression(t *testing.T) {
	rt := New(testRobot(), motion.DefaultParams())
	if err := rt.Submit([]domain.Task{waterTask()}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var seen []domain.TaskStatus
	record := func() {
		snap := rt.Snapshot()
		if len(snap.Tasks) == 0 {
			return
		}
		s := snap.Tasks[0].Status
		if len(seen) == 0 || seen[len(seen)-1] != s {
			seen = append(seen, s)
		}
	}

	record()
	for i := 0; i < 40 && !rt.Idle(); i++ {
		if err := rt.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		record()
	}

	want := []domain.TaskStatus{
		domain.StatusAwaitingSlicing,
		domain.StatusInQueue,
		domain.StatusInProgress,
	}
	if len(seen) != len(want) {
		t.Fatalf("status progression = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("status progression = %v, want %v", seen, want)
		}
	}
}

func TestRuntime_UnreachableTaskDoesNotBlockSiblings(t *testing.T) {
	rt := New(testRobot(), motion.DefaultParams())
	batch := []domain.Task{
		{ID: 1, Operation: "water", Shape: domain.PointShape(domain.Vec2{X: 0.5, Y: 5})},
		waterTask(),
	}
	batch[1].ID = 2
	if err := rt.Submit(batch); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	stepUntilIdle(t, rt, 100)
	if err := rt.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	snap := rt.Snapshot()
	if len(snap.Tasks) != 1 {
		t.Fatalf("%d task(s) active, want the failed one only", len(snap.Tasks))
	}
	failed := snap.Tasks[0]
	if failed.ID != 1 {
		t.Errorf("remaining task id = %d, want 1", failed.ID)
	}
	if failed.Status != domain.StatusAwaitingSlicing {
		t.Errorf("failed task status = %q, want %q", failed.Status, domain.StatusAwaitingSlicing)
	}
	if failed.SliceError == "" {
		t.Error("failed task has no recorded slice error")
	}
}

func TestRuntime_DuplicateSubmitRejected(t *testing.T) {
	rt := New(testRobot(), motion.DefaultParams())
	if err := rt.Submit([]domain.Task{waterTask()}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	err := rt.Submit([]domain.Task{waterTask()})
	if err == nil {
		t.Fatal("duplicate Submit succeeded")
	}
	var re *domain.RobotError
	if !errors.As(err, &re) || re.Code != domain.ErrDuplicateTask.Code {
		t.Errorf("err = %v, want duplicate-task code %d", err, domain.ErrDuplicateTask.Code)
	}
}

func TestRuntime_SnapshotGeometry(t *testing.T) {
	robot := testRobot()
	robot.FramePosition = domain.Vec2{X: 1, Y: 0.5}
	rt := New(robot, motion.DefaultParams())

	snap := rt.Snapshot()
	want := domain.Vec3{X: 1.2, Y: 0.7, Z: 0.1}
	if snap.WorldToolPoint != want {
		t.Errorf("WorldToolPoint = %+v, want %+v", snap.WorldToolPoint, want)
	}
	if snap.FrameCorners[0] != (domain.Vec3{X: 1, Y: 0.5}) {
		t.Errorf("reference corner = %+v, want frame position at ground", snap.FrameCorners[0])
	}
	if snap.PendingCommands != 0 {
		t.Errorf("PendingCommands = %d, want 0", snap.PendingCommands)
	}
}
