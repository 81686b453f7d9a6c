package domain

import "fmt"

// RobotError is the unified error type for the engine.
// Each error has a numeric code and human-readable message.
type RobotError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *RobotError) Error() string {
	return fmt.Sprintf("gantry error %d: %s", e.Code, e.Message)
}

// NewRobotError creates a new RobotError.
func NewRobotError(code int, msg string) *RobotError {
	return &RobotError{Code: code, Message: msg}
}

// WrapRobotError creates a RobotError that includes a cause.
func WrapRobotError(code int, msg string, cause error) *RobotError {
	return &RobotError{Code: code, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// ---- Slicer errors (-32010 to -32039) ----

var (
	ErrNoReachablePoints = &RobotError{Code: -32010, Message: "no reachable points in task shape"}
	ErrUnknownShape      = &RobotError{Code: -32011, Message: "unknown task shape"}
	ErrGridCountsInvalid = &RobotError{Code: -32012, Message: "grid counts must be positive"}
)

// ---- Queue manager errors (-32040 to -32069) ----

var (
	ErrDuplicateTask        = &RobotError{Code: -32040, Message: "task already admitted"}
	ErrTaskNotFound         = &RobotError{Code: -32041, Message: "task not found in active set"}
	ErrTaskAlreadySliced    = &RobotError{Code: -32042, Message: "task has already been sliced"}
	ErrStepCountInvalid     = &RobotError{Code: -32043, Message: "step count must be positive"}
	ErrCountExceedsExpected = &RobotError{Code: -32044, Message: "command count exceeds expected for task"}
	ErrCommandsBeforeSlice  = &RobotError{Code: -32045, Message: "commands appended before step count was recorded"}
)

// ---- Executor / stack errors (-32070 to -32099) ----

var (
	ErrCommandInFlight = &RobotError{Code: -32070, Message: "a command is already in flight"}
	ErrStackEmpty      = &RobotError{Code: -32071, Message: "command stack is empty"}
)

// ---- Store / config errors (-32130 to -32159) ----

var (
	ErrStoreInit     = &RobotError{Code: -32130, Message: "failed to initialize task store"}
	ErrStoreQuery    = &RobotError{Code: -32131, Message: "task store query failed"}
	ErrStoreWrite    = &RobotError{Code: -32132, Message: "task store write failed"}
	ErrConfigInvalid = &RobotError{Code: -32136, Message: "invalid configuration"}
)
