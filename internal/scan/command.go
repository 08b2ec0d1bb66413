package scan

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tavrik/repostate/internal/execshell"
	"github.com/tavrik/repostate/internal/gitrepo"
	"github.com/tavrik/repostate/internal/notify"
	"github.com/tavrik/repostate/internal/utils"
	flagutils "github.com/tavrik/repostate/internal/utils/flags"
	pathutils "github.com/tavrik/repostate/internal/utils/path"
)

const (
	commandUseConstant              = "scan [roots...]"
	commandShortDescriptionConstant = "Report how repositories under the given roots relate to their upstreams"
	commandLongDescriptionConstant  = "scan walks the provided directories, finds git repositories, fetches their " +
		"remotes, and classifies each one as current, needs-pull, needs-push, diverged, or error."
	flagNotifyNameConstant        = "notify"
	flagNotifyDescriptionConstant = "notification method"
	flagFormatNameConstant        = "format"
	flagFormatDescriptionConstant = "report format"
	flagFetchNameConstant         = "fetch"
	flagFetchDescriptionConstant  = "Fetch remotes before comparing revisions"
	flagRemoteNameConstant        = "remote"
	flagRemoteDescriptionConstant = "Remote to fetch before comparison (empty fetches all remotes)"
	flagDebugNameConstant         = "debug"
	flagDebugDescriptionConstant  = "Print per-repository progress to standard error"
	scanFailureLogMessageConstant = "scan completed with a delivery failure"
	scanFailureTemplateConstant   = "scan: %v\n"
)

var notifyMethodChoices = []string{
	string(notify.MethodTerminal),
	string(notify.MethodSystem),
	string(notify.MethodBoth),
}

var reportFormatChoices = []string{
	string(ReportFormatTable),
	string(ReportFormatCSV),
	string(ReportFormatYAML),
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies scan configuration resolved outside the command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for repository scans.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              ScanExecutor
	Discoverer            RepositoryDiscoverer
	Inspector             RepositoryInspector
	Notifier              notify.Notifier
	OutputWriter          io.Writer
	ErrorWriter           io.Writer
	CommandEventsObserver execshell.CommandEventObserver
	HumanReadableLogging  bool
	OperatingSystem       string
}

// Build constructs the scan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	defaults := builder.resolveConfiguration()
	command.Flags().String(
		flagNotifyNameConstant,
		defaults.Notify,
		flagutils.FormatChoiceUsage(defaults.Notify, notifyMethodChoices, flagNotifyDescriptionConstant),
	)
	command.Flags().String(
		flagFormatNameConstant,
		defaults.Format,
		flagutils.FormatChoiceUsage(defaults.Format, reportFormatChoices, flagFormatDescriptionConstant),
	)
	command.Flags().Bool(flagFetchNameConstant, defaults.FetchRemote, flagFetchDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, defaults.RemoteName, flagRemoteDescriptionConstant)
	command.Flags().Bool(flagDebugNameConstant, defaults.Debug, flagDebugDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	configuration = applyPositionalArguments(configuration, arguments)
	configuration = applyFlagOverrides(configuration, command)

	notifyMethod, notifyError := notify.ParseMethod(configuration.Notify)
	if notifyError != nil {
		return notifyError
	}
	reportFormat, formatError := ParseReportFormat(configuration.Format)
	if formatError != nil {
		return formatError
	}

	logger := builder.resolveLogger()
	outputWriter, errorWriter := builder.resolveWriters(command)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	inspector, inspectorError := builder.resolveInspector(executor)
	if inspectorError != nil {
		return inspectorError
	}

	notifier, notifierError := builder.resolveNotifier(notifyMethod, executor, outputWriter)
	if notifierError != nil {
		return notifierError
	}

	service, serviceError := NewService(ServiceDependencies{
		Discoverer:   builder.resolveDiscoverer(),
		Inspector:    inspector,
		Notifier:     notifier,
		OutputWriter: outputWriter,
		ErrorWriter:  errorWriter,
		Logger:       logger,
	})
	if serviceError != nil {
		return serviceError
	}

	sanitizedRoots := pathutils.NewRootSanitizer().Sanitize(configuration.Roots)

	_, runError := service.Run(command.Context(), Options{
		Roots:       sanitizedRoots,
		RemoteName:  configuration.RemoteName,
		FetchRemote: configuration.FetchRemote,
		Format:      reportFormat,
		Debug:       configuration.Debug,
	})
	if runError != nil {
		// Per-repository problems are already in the report; a rendering or
		// notification failure should not change the exit code either.
		logger.Warn(scanFailureLogMessageConstant, zap.Error(runError))
		fmt.Fprintf(errorWriter, scanFailureTemplateConstant, runError)
	}

	return nil
}

// applyPositionalArguments accepts the positional invocation shape
// `scan [root] [notification_method]`: arguments naming a notification
// method select the notify channel, everything else becomes a scan root.
func applyPositionalArguments(configuration CommandConfiguration, arguments []string) CommandConfiguration {
	var positionalRoots []string
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		if isNotificationMethodName(trimmedArgument) {
			configuration.Notify = strings.ToLower(trimmedArgument)
			continue
		}
		positionalRoots = append(positionalRoots, trimmedArgument)
	}

	if len(positionalRoots) > 0 {
		configuration.Roots = positionalRoots
	}
	return configuration
}

func isNotificationMethodName(candidate string) bool {
	normalizedCandidate := strings.ToLower(candidate)
	for _, methodName := range notifyMethodChoices {
		if normalizedCandidate == methodName {
			return true
		}
	}
	return false
}

func applyFlagOverrides(configuration CommandConfiguration, command *cobra.Command) CommandConfiguration {
	if command.Flags().Changed(flagNotifyNameConstant) {
		configuration.Notify, _ = command.Flags().GetString(flagNotifyNameConstant)
	}
	if command.Flags().Changed(flagFormatNameConstant) {
		configuration.Format, _ = command.Flags().GetString(flagFormatNameConstant)
	}
	if command.Flags().Changed(flagFetchNameConstant) {
		configuration.FetchRemote, _ = command.Flags().GetBool(flagFetchNameConstant)
	}
	if command.Flags().Changed(flagRemoteNameConstant) {
		configuration.RemoteName, _ = command.Flags().GetString(flagRemoteNameConstant)
	}
	if command.Flags().Changed(flagDebugNameConstant) {
		configuration.Debug, _ = command.Flags().GetBool(flagDebugNameConstant)
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveWriters(command *cobra.Command) (io.Writer, io.Writer) {
	outputWriter := builder.OutputWriter
	if outputWriter == nil {
		outputWriter = utils.NewFlushingWriter(command.OutOrStdout())
	}
	errorWriter := builder.ErrorWriter
	if errorWriter == nil {
		errorWriter = command.ErrOrStderr()
	}
	return outputWriter, errorWriter
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (ScanExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.HumanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if builder.CommandEventsObserver != nil {
		shellExecutor.RegisterCommandEventObserver(builder.CommandEventsObserver)
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveInspector(executor ScanExecutor) (RepositoryInspector, error) {
	if builder.Inspector != nil {
		return builder.Inspector, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

func (builder *CommandBuilder) resolveDiscoverer() RepositoryDiscoverer {
	if builder.Discoverer != nil {
		return builder.Discoverer
	}
	return newDefaultDiscoverer()
}

func (builder *CommandBuilder) resolveNotifier(method notify.Method, executor ScanExecutor, outputWriter io.Writer) (notify.Notifier, error) {
	if builder.Notifier != nil {
		return builder.Notifier, nil
	}

	terminalNotifier, terminalError := notify.NewTerminalNotifier(outputWriter)
	if terminalError != nil {
		return nil, terminalError
	}

	operatingSystem := builder.OperatingSystem
	if len(operatingSystem) == 0 {
		operatingSystem = runtime.GOOS
	}
	systemNotifier, systemError := notify.NewSystemNotifier(executor, operatingSystem)
	if systemError != nil {
		return nil, systemError
	}

	return notify.ForMethod(method, terminalNotifier, systemNotifier), nil
}
