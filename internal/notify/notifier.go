package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tavrik/repostate/internal/execshell"
)

const (
	methodTerminalValueConstant           = "terminal"
	methodSystemValueConstant             = "system"
	methodBothValueConstant               = "both"
	unknownMethodTemplateConstant         = "unsupported notification method %q (expected terminal, system, or both)"
	writerMissingMessageConstant          = "notification writer not configured"
	executorMissingMessageConstant        = "notification executor not configured"
	unsupportedPlatformTemplateConstant   = "desktop notifications are not supported on %s"
	terminalNotificationTemplateConstant  = "%s: %s\n"
	linuxOperatingSystemNameConstant      = "linux"
	darwinOperatingSystemNameConstant     = "darwin"
	osascriptExpressionFlagConstant       = "-e"
	osascriptNotificationTemplateConstant = "display notification %q with title %q"
	notificationDeliveryTemplateConstant  = "failed to deliver %s notification: %w"
	terminalNotificationChannelLabel      = "terminal"
	systemNotificationChannelLabel        = "system"
)

// ErrWriterNotConfigured indicates the terminal notifier lacked an output writer.
var ErrWriterNotConfigured = errors.New(writerMissingMessageConstant)

// ErrExecutorNotConfigured indicates the system notifier lacked a shell executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// Method selects which notification channels a scan reports through.
type Method string

// Supported notification methods.
const (
	MethodTerminal Method = Method(methodTerminalValueConstant)
	MethodSystem   Method = Method(methodSystemValueConstant)
	MethodBoth     Method = Method(methodBothValueConstant)
)

// ParseMethod converts a textual notification method into a Method value.
func ParseMethod(value string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case methodTerminalValueConstant, "":
		return MethodTerminal, nil
	case methodSystemValueConstant:
		return MethodSystem, nil
	case methodBothValueConstant:
		return MethodBoth, nil
	default:
		return "", fmt.Errorf(unknownMethodTemplateConstant, value)
	}
}

// Notification carries the title and body of a scan outcome announcement.
type Notification struct {
	Title   string
	Message string
}

// Notifier delivers scan outcome notifications through one channel.
type Notifier interface {
	Notify(executionContext context.Context, notification Notification) error
}

// TerminalNotifier prints notifications to a writer, typically standard output.
type TerminalNotifier struct {
	writer io.Writer
}

// NewTerminalNotifier constructs a TerminalNotifier targeting the provided writer.
func NewTerminalNotifier(writer io.Writer) (*TerminalNotifier, error) {
	if writer == nil {
		return nil, ErrWriterNotConfigured
	}
	return &TerminalNotifier{writer: writer}, nil
}

// Notify writes the notification as a single line.
func (notifier *TerminalNotifier) Notify(_ context.Context, notification Notification) error {
	_, writeError := fmt.Fprintf(notifier.writer, terminalNotificationTemplateConstant, notification.Title, notification.Message)
	if writeError != nil {
		return fmt.Errorf(notificationDeliveryTemplateConstant, terminalNotificationChannelLabel, writeError)
	}
	return nil
}

// NotificationExecutor exposes the shell wrappers used for desktop notifications.
type NotificationExecutor interface {
	ExecuteNotifySend(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteOSAScript(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SystemNotifier delivers desktop notifications through platform tooling:
// notify-send on Linux and osascript on macOS.
type SystemNotifier struct {
	executor        NotificationExecutor
	operatingSystem string
}

// NewSystemNotifier constructs a SystemNotifier for the provided operating system identifier.
func NewSystemNotifier(executor NotificationExecutor, operatingSystem string) (*SystemNotifier, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &SystemNotifier{executor: executor, operatingSystem: operatingSystem}, nil
}

// Notify dispatches the notification to the platform notification service.
func (notifier *SystemNotifier) Notify(executionContext context.Context, notification Notification) error {
	var deliveryError error
	switch notifier.operatingSystem {
	case linuxOperatingSystemNameConstant:
		_, deliveryError = notifier.executor.ExecuteNotifySend(executionContext, execshell.CommandDetails{
			Arguments: []string{notification.Title, notification.Message},
		})
	case darwinOperatingSystemNameConstant:
		script := fmt.Sprintf(osascriptNotificationTemplateConstant, notification.Message, notification.Title)
		_, deliveryError = notifier.executor.ExecuteOSAScript(executionContext, execshell.CommandDetails{
			Arguments: []string{osascriptExpressionFlagConstant, script},
		})
	default:
		return fmt.Errorf(unsupportedPlatformTemplateConstant, notifier.operatingSystem)
	}

	if deliveryError != nil {
		return fmt.Errorf(notificationDeliveryTemplateConstant, systemNotificationChannelLabel, deliveryError)
	}
	return nil
}

// CompositeNotifier fans a notification out to multiple channels, collecting
// every delivery failure instead of stopping at the first.
type CompositeNotifier struct {
	notifiers []Notifier
}

// NewCompositeNotifier constructs a CompositeNotifier over the provided channels.
func NewCompositeNotifier(notifiers ...Notifier) *CompositeNotifier {
	return &CompositeNotifier{notifiers: notifiers}
}

// Notify delivers the notification through every configured channel.
func (notifier *CompositeNotifier) Notify(executionContext context.Context, notification Notification) error {
	var deliveryErrors []error
	for _, channelNotifier := range notifier.notifiers {
		if channelNotifier == nil {
			continue
		}
		if deliveryError := channelNotifier.Notify(executionContext, notification); deliveryError != nil {
			deliveryErrors = append(deliveryErrors, deliveryError)
		}
	}
	return errors.Join(deliveryErrors...)
}

// ForMethod selects the notifier matching the requested method.
func ForMethod(method Method, terminalNotifier Notifier, systemNotifier Notifier) Notifier {
	switch method {
	case MethodSystem:
		return systemNotifier
	case MethodBoth:
		return NewCompositeNotifier(terminalNotifier, systemNotifier)
	default:
		return terminalNotifier
	}
}
