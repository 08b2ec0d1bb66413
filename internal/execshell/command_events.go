package execshell

// CommandEventObserver receives lifecycle events for the external binaries a
// scan shells out to (git, notify-send, osascript). The scan command registers
// a console observer so fetch progress stays readable in console log mode.
type CommandEventObserver interface {
	// CommandStarted fires before the binary is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the binary exits, with its result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the binary could not run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver keeps the executor's observer non-nil when no
// observer has been registered.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
