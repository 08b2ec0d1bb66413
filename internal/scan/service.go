package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tavrik/repostate/internal/notify"
	"github.com/tavrik/repostate/internal/status"
)

const (
	discovererMissingMessageConstant   = "repository discoverer not configured"
	inspectorMissingMessageConstant    = "repository inspector not configured"
	outputWriterMissingMessageConstant = "output writer not configured"
	debugDiscoveredTemplateConstant    = "discovered %d repositories under %d roots\n"
	debugCheckingTemplateConstant      = "checking %s\n"
	notGitRepositoryReasonConstant     = "not a git repository"
	fetchFailureReasonTemplateConstant = "remote unavailable: %v"
	branchFailureReasonTemplate        = "cannot determine current branch: %v"
	upstreamMissingReasonTemplate      = "no upstream branch: %v"
	localRevisionReasonTemplate        = "cannot resolve local revision: %v"
	remoteRevisionReasonTemplate       = "cannot resolve upstream revision: %v"
	mergeBaseReasonTemplate            = "cannot locate merge base: %v"
	commitCountReasonTemplate          = "cannot count commits: %v"
	reportRenderErrorTemplateConstant  = "failed to render scan report: %w"
	notificationTitleConstant          = "repostate"
	allCurrentNotificationConstant     = "all %d repositories are current"
	attentionNotificationTemplate      = "%d of %d repositories need attention (%d pull, %d push, %d diverged, %d errors)"
	headRevisionConstant               = "HEAD"
	upstreamRevisionConstant           = "@{u}"

	repositoryLogFieldConstant = "repository"
	stateLogFieldConstant      = "state"
	aheadLogFieldConstant      = "ahead"
	behindLogFieldConstant     = "behind"
	reasonLogFieldConstant     = "reason"
	statusLogMessageConstant   = "repository status resolved"
)

// ErrDiscovererNotConfigured indicates the repository discoverer dependency was missing.
var ErrDiscovererNotConfigured = errors.New(discovererMissingMessageConstant)

// ErrInspectorNotConfigured indicates the repository inspector dependency was missing.
var ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)

// ErrOutputWriterNotConfigured indicates the report writer dependency was missing.
var ErrOutputWriterNotConfigured = errors.New(outputWriterMissingMessageConstant)

// ServiceDependencies enumerates external collaborators required for scans.
type ServiceDependencies struct {
	Discoverer   RepositoryDiscoverer
	Inspector    RepositoryInspector
	Notifier     notify.Notifier
	OutputWriter io.Writer
	ErrorWriter  io.Writer
	Logger       *zap.Logger
}

// Options configures a single scan run.
type Options struct {
	Roots       []string
	RemoteName  string
	FetchRemote bool
	Format      ReportFormat
	Debug       bool
}

// Outcome captures the observable results of a completed scan.
type Outcome struct {
	Repositories []status.RepositoryStatus
	Summary      status.Summary
}

// Service coordinates repository discovery, status evaluation, reporting, and
// notification. Repository-level failures are recorded as error states and
// never abort the run.
type Service struct {
	discoverer   RepositoryDiscoverer
	inspector    RepositoryInspector
	notifier     notify.Notifier
	outputWriter io.Writer
	errorWriter  io.Writer
	logger       *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.OutputWriter == nil {
		return nil, ErrOutputWriterNotConfigured
	}

	errorWriter := dependencies.ErrorWriter
	if errorWriter == nil {
		errorWriter = io.Discard
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		discoverer:   dependencies.Discoverer,
		inspector:    dependencies.Inspector,
		notifier:     dependencies.Notifier,
		outputWriter: dependencies.OutputWriter,
		errorWriter:  errorWriter,
		logger:       logger,
	}, nil
}

// Run evaluates every repository under the configured roots sequentially and
// renders the report. The returned error covers report rendering and
// notification delivery only; per-repository failures surface as error states.
func (service *Service) Run(executionContext context.Context, options Options) (Outcome, error) {
	roots := options.Roots
	if len(roots) == 0 {
		roots = []string{defaultRootPathConstant}
	}

	repositories, discoveryError := service.discoverer.DiscoverRepositories(roots)
	if discoveryError != nil {
		return Outcome{}, discoveryError
	}

	if options.Debug {
		fmt.Fprintf(service.errorWriter, debugDiscoveredTemplateConstant, len(repositories), len(roots))
	}

	outcome := Outcome{Repositories: make([]status.RepositoryStatus, 0, len(repositories))}
	for _, repositoryPath := range repositories {
		if options.Debug {
			fmt.Fprintf(service.errorWriter, debugCheckingTemplateConstant, repositoryPath)
		}

		repositoryStatus := service.evaluateRepository(executionContext, repositoryPath, options)
		outcome.Repositories = append(outcome.Repositories, repositoryStatus)
		outcome.Summary.Record(repositoryStatus)

		service.logger.Debug(
			statusLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repositoryStatus.Path),
			zap.String(stateLogFieldConstant, string(repositoryStatus.State)),
			zap.Int(aheadLogFieldConstant, repositoryStatus.AheadCount),
			zap.Int(behindLogFieldConstant, repositoryStatus.BehindCount),
			zap.String(reasonLogFieldConstant, repositoryStatus.Reason),
		)
	}

	report := Report{Repositories: outcome.Repositories, Summary: outcome.Summary}
	if renderError := WriteReport(service.outputWriter, options.Format, report); renderError != nil {
		return outcome, fmt.Errorf(reportRenderErrorTemplateConstant, renderError)
	}

	if notificationError := service.deliverNotification(executionContext, outcome.Summary); notificationError != nil {
		return outcome, notificationError
	}

	return outcome, nil
}

// evaluateRepository gathers the revisions needed for classification. Every
// failure path produces an error state with a reason instead of an error: a
// broken repository is a result, not a scan failure.
func (service *Service) evaluateRepository(executionContext context.Context, repositoryPath string, options Options) status.RepositoryStatus {
	if !service.inspector.IsGitRepository(executionContext, repositoryPath) {
		return errorStatus(repositoryPath, "", notGitRepositoryReasonConstant)
	}

	branchName, branchError := service.inspector.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return errorStatus(repositoryPath, "", fmt.Sprintf(branchFailureReasonTemplate, branchError))
	}

	if options.FetchRemote {
		if fetchError := service.inspector.Fetch(executionContext, repositoryPath, options.RemoteName); fetchError != nil {
			return errorStatus(repositoryPath, branchName, fmt.Sprintf(fetchFailureReasonTemplateConstant, fetchError))
		}
	}

	if _, upstreamError := service.inspector.GetUpstreamBranch(executionContext, repositoryPath); upstreamError != nil {
		return errorStatus(repositoryPath, branchName, fmt.Sprintf(upstreamMissingReasonTemplate, upstreamError))
	}

	localHash, localError := service.inspector.ResolveRevision(executionContext, repositoryPath, headRevisionConstant)
	if localError != nil {
		return errorStatus(repositoryPath, branchName, fmt.Sprintf(localRevisionReasonTemplate, localError))
	}

	remoteHash, remoteError := service.inspector.ResolveRevision(executionContext, repositoryPath, upstreamRevisionConstant)
	if remoteError != nil {
		return errorStatus(repositoryPath, branchName, fmt.Sprintf(remoteRevisionReasonTemplate, remoteError))
	}

	comparison := status.Comparison{LocalHash: localHash, RemoteHash: remoteHash}

	if localHash != remoteHash {
		baseHash, baseError := service.inspector.MergeBase(executionContext, repositoryPath, headRevisionConstant, upstreamRevisionConstant)
		if baseError != nil {
			return errorStatus(repositoryPath, branchName, fmt.Sprintf(mergeBaseReasonTemplate, baseError))
		}
		comparison.BaseHash = baseHash

		aheadCount, aheadError := service.inspector.CountCommits(executionContext, repositoryPath, upstreamRevisionConstant, headRevisionConstant)
		if aheadError != nil {
			return errorStatus(repositoryPath, branchName, fmt.Sprintf(commitCountReasonTemplate, aheadError))
		}
		behindCount, behindError := service.inspector.CountCommits(executionContext, repositoryPath, headRevisionConstant, upstreamRevisionConstant)
		if behindError != nil {
			return errorStatus(repositoryPath, branchName, fmt.Sprintf(commitCountReasonTemplate, behindError))
		}
		comparison.AheadCount = aheadCount
		comparison.BehindCount = behindCount
	} else {
		comparison.BaseHash = localHash
	}

	return status.Resolve(repositoryPath, branchName, comparison)
}

func (service *Service) deliverNotification(executionContext context.Context, summary status.Summary) error {
	if service.notifier == nil {
		return nil
	}

	notification := notify.Notification{Title: notificationTitleConstant}
	actionableCount := summary.ActionableCount() + summary.Errors
	if actionableCount == 0 {
		notification.Message = fmt.Sprintf(allCurrentNotificationConstant, summary.Scanned)
	} else {
		notification.Message = fmt.Sprintf(
			attentionNotificationTemplate,
			actionableCount,
			summary.Scanned,
			summary.NeedsPull,
			summary.NeedsPush,
			summary.Diverged,
			summary.Errors,
		)
	}

	return service.notifier.Notify(executionContext, notification)
}

func errorStatus(repositoryPath string, branchName string, reason string) status.RepositoryStatus {
	return status.RepositoryStatus{
		Path:   repositoryPath,
		Branch: branchName,
		State:  status.StateError,
		Reason: flattenReason(reason),
	}
}

// flattenReason collapses whitespace runs, including the newlines git prints
// in multi-line stderr, so a reason always occupies a single report row.
func flattenReason(reason string) string {
	return strings.Join(strings.Fields(reason), " ")
}
