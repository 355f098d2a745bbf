package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tagger-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tagger-cli/internal/core/domain"
)

const (
	// updateBuffer holds state changes the screen has not rendered yet.
	updateBuffer = 64

	maxProgressWidth = 60
	kilobyte         = 1024
)

// App is the progress screen for one submission, following the Elm
// architecture. It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	cancel context.CancelFunc

	file   domain.UploadedFile
	bucket string

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar
	spinner   spinner.Model
	progress  progress.Model

	updates     chan domain.WorkflowState
	unsubscribe func()

	// state is the latest state received from the workflow.
	state domain.WorkflowState

	// steps are the progress messages seen so far, in order.
	steps []string

	finished bool
	aborted  bool
	err      error

	showDetails bool
	width       int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the progress screen for submitting file to bucket.
func NewApp(ports *Ports, file domain.UploadedFile, bucket string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	from, to := s.ProgressGradient()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		cancel:    func() {},
		file:      file,
		bucket:    bucket,
		styles:    s,
		keymap:    km,
		statusBar: status.NewBar(s, km),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		progress:  progress.New(progress.WithGradient(from, to), progress.WithWidth(maxProgressWidth)),
		updates:   make(chan domain.WorkflowState, updateBuffer),
		state:     domain.WorkflowState{Phase: domain.PhaseIdle},
	}, nil
}

// WithContext sets the context the submission runs under. Quitting the
// screen cancels it.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model. It subscribes to the workflow and starts the run.
func (a *App) Init() tea.Cmd {
	a.unsubscribe = a.ports.Workflow.Subscribe(a.publish)

	return tea.Batch(
		tea.SetWindowTitle("tagger - "+a.file.Name),
		a.spinner.Tick,
		a.run(),
		a.waitForState(),
	)
}

// publish is the workflow observer. It never blocks the workflow; if the
// screen falls behind, intermediate states are dropped and the final state
// still arrives through RunFinished.
func (a *App) publish(state domain.WorkflowState) {
	select {
	case a.updates <- state:
	default:
	}
}

func (a *App) run() tea.Cmd {
	return func() tea.Msg {
		state, err := a.ports.Workflow.Run(a.ctx, a.file, a.bucket)
		return messages.RunFinished{State: state, Err: err}
	}
}

func (a *App) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-a.updates:
			return messages.StateChanged{State: state}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.statusBar.SetWidth(msg.Width)
		if msg.Width > 4 {
			a.progress.Width = min(msg.Width-4, maxProgressWidth)
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keymap.Quit):
			if !a.finished {
				a.aborted = true
			}
			a.stop()
			return a, tea.Quit
		case key.Matches(msg, a.keymap.Help):
			a.showDetails = !a.showDetails
		}
		return a, nil

	case messages.StateChanged:
		if a.finished {
			return a, nil
		}
		return a, tea.Batch(a.apply(msg.State), a.waitForState())

	case messages.RunFinished:
		a.finished = true
		a.err = msg.Err
		var cmd tea.Cmd
		if msg.Err == nil {
			cmd = a.apply(msg.State)
		}
		a.stop()
		return a, tea.Sequence(cmd, tea.Quit)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case progress.FrameMsg:
		model, cmd := a.progress.Update(msg)
		if pm, ok := model.(progress.Model); ok {
			a.progress = pm
		}
		return a, cmd
	}

	return a, nil
}

// apply records a state and returns the progress bar animation.
func (a *App) apply(state domain.WorkflowState) tea.Cmd {
	a.state = state
	a.statusBar.SetPhase(state.Phase)
	if state.Failure != nil {
		a.statusBar.SetMessage(state.Failure.Error())
	}

	if msg := state.Progress.Message; msg != "" && (len(a.steps) == 0 || a.steps[len(a.steps)-1] != msg) {
		a.steps = append(a.steps, msg)
	}

	percent := state.Progress.Percent
	if state.Phase == domain.PhaseReady {
		percent = 100
	}
	return a.progress.SetPercent(float64(percent) / 100)
}

// stop detaches from the workflow and releases the run context. When the
// user quits early this also cancels the in-flight submission.
func (a *App) stop() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.cancel()
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("tagger"))
	b.WriteString(a.styles.Muted.Render(" · travel product enrichment"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n",
		a.styles.Normal.Render(a.file.Name),
		a.styles.Muted.Render(fmt.Sprintf("(%.1f KB)", float64(a.file.Size())/kilobyte)))
	if a.state.Bucket != "" {
		b.WriteString(a.styles.Muted.Render("bucket: " + a.state.Bucket))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, step := range a.steps {
		if i == len(a.steps)-1 && !a.finished {
			fmt.Fprintf(&b, "%s %s\n", a.spinner.View(), a.styles.Normal.Render(step))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", a.styles.Success.Render("✓"), a.styles.StepDone.Render(step))
	}
	if len(a.steps) == 0 && !a.finished {
		fmt.Fprintf(&b, "%s %s\n", a.spinner.View(), a.styles.Normal.Render(a.state.Phase.Description()))
	}

	b.WriteString("\n")
	b.WriteString(a.progress.View())
	b.WriteString("\n\n")

	if a.finished {
		b.WriteString(a.viewOutcome())
		b.WriteString("\n")
	}

	if a.showDetails {
		b.WriteString(a.viewDetails())
		b.WriteString("\n")
	}

	b.WriteString(a.statusBar.View())
	b.WriteString("\n")
	return b.String()
}

func (a *App) viewOutcome() string {
	if a.err != nil {
		return a.styles.ErrorPanel.Render(a.styles.Error.Render(a.err.Error()))
	}

	switch a.state.Phase {
	case domain.PhaseReady:
		lines := []string{a.styles.Success.Render("Processing complete")}
		if s := a.state.Summary; s != nil {
			lines = append(lines,
				a.metric("Products processed", s.TotalProducts),
				a.metric("Summaries generated", s.SuccessfulSummaries),
				a.metric("Products tagged", s.SuccessfulTags),
			)
		}
		if a.state.HasArtifact() {
			lines = append(lines, a.styles.Muted.Render("Enhanced file: "+a.state.Artifact.SuggestedFileName))
		} else {
			lines = append(lines, a.styles.Warning.Render("No enhanced file was returned"))
		}
		return a.styles.Panel.Render(strings.Join(lines, "\n"))

	case domain.PhaseFailed:
		lines := []string{a.styles.Error.Render("Processing failed")}
		if a.state.Failure != nil {
			lines = append(lines, a.state.Failure.Error())
		}
		return a.styles.ErrorPanel.Render(strings.Join(lines, "\n"))
	}
	return ""
}

func (a *App) metric(label string, value int) string {
	return fmt.Sprintf("%-20s %s", label, a.styles.Metric.Render(fmt.Sprintf("%d", value)))
}

func (a *App) viewDetails() string {
	lines := []string{
		"phase:      " + a.state.Phase.String(),
		"submission: " + a.state.SubmissionID,
	}
	if a.state.Failure != nil && a.state.Failure.Body != "" {
		lines = append(lines, "response:   "+a.state.Failure.Body)
	}
	return a.styles.Muted.Render(strings.Join(lines, "\n"))
}

// Outcome returns the final state once the screen has exited. It returns
// ErrAborted if the user quit before the submission finished, and the
// rejection error if the workflow refused the submission.
func (a *App) Outcome() (domain.WorkflowState, error) {
	if a.aborted {
		return a.state, ErrAborted
	}
	return a.state, a.err
}

// Finished reports whether the workflow has returned.
func (a *App) Finished() bool {
	return a.finished
}

// Steps returns the progress messages seen so far.
func (a *App) Steps() []string {
	return append([]string(nil), a.steps...)
}

// Run shows the progress screen until the submission finishes or the user
// quits, and returns the outcome.
func Run(ctx context.Context, ports *Ports, file domain.UploadedFile, bucket string, opts ...tea.ProgramOption) (domain.WorkflowState, error) {
	app, err := NewApp(ports, file, bucket)
	if err != nil {
		return domain.WorkflowState{}, err
	}
	app.WithContext(ctx)

	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return domain.WorkflowState{}, fmt.Errorf("TUI error: %w", err)
	}
	return app.Outcome()
}
