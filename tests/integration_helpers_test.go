package tests

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"
)

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, timeout time.Duration, arguments []string) string {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	command.Env = append([]string{}, os.Environ()...)

	outputBytes, runError := command.CombinedOutput()
	outputText := string(outputBytes)
	requireNoError(testInstance, runError, outputText)
	return outputText
}

func runGitCommand(testInstance *testing.T, arguments ...string) {
	testInstance.Helper()

	gitArguments := append([]string{
		"-c", "user.name=integration",
		"-c", "user.email=integration@example.com",
		"-c", "protocol.file.allow=always",
	}, arguments...)

	command := exec.Command("git", gitArguments...)
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	outputBytes, runError := command.CombinedOutput()
	requireNoError(testInstance, runError, string(outputBytes))
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}
