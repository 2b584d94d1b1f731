package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/reallife-app/reallife/internal/capability"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/layout"
	"github.com/reallife-app/reallife/internal/profile"
	"github.com/reallife-app/reallife/internal/wizard"
)

// basicInfo holds the values bound to the step 1 form. It lives behind a
// pointer so the bindings survive model copies and form rebuilds.
type basicInfo struct {
	displayName string
	email       string
	birthDate   string
	image       string
	username    string
	password    string
}

// WizardConfig wires a WizardModel to its collaborators.
type WizardConfig struct {
	Context    context.Context
	Controller *wizard.Controller
	Submitter  wizard.Submitter
	Token      string
	Layout     layout.Params
	Dates      capability.DateSource
	Images     capability.ImageSource
}

// WizardModel is the two-step profile setup screen.
type WizardModel struct {
	ctx        context.Context
	controller *wizard.Controller
	submitter  wizard.Submitter
	token      string
	dates      capability.DateSource
	images     capability.ImageSource

	info    *basicInfo
	form    *huh.Form
	formErr string

	canvas     Canvas
	picker     Picker
	mode       ViewMode
	statusBar  StatusBar
	spinner    spinner.Model
	overlay    Overlay
	leaving    bool // overlay is the leave confirmation
	submitting bool

	width  int
	height int

	Result  wizard.Outcome // set when the wizard closed itself
	Done    bool
	Aborted bool
}

// NewWizardModel creates the setup screen in the basic-info step.
func NewWizardModel(cfg WizardConfig) WizardModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Dates == nil {
		cfg.Dates = capability.Unavailable{Name: "Date picker"}
	}
	if cfg.Images == nil {
		cfg.Images = capability.Unavailable{Name: "Image picker"}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorBlue)

	communities := cfg.Controller.Communities()
	sel := cfg.Controller.Selection()

	m := WizardModel{
		ctx:        cfg.Context,
		controller: cfg.Controller,
		submitter:  cfg.Submitter,
		token:      cfg.Token,
		dates:      cfg.Dates,
		images:     cfg.Images,
		info:       infoFromDraft(cfg.Controller.Draft()),
		canvas:     NewCanvas(communities, cfg.Layout, sel),
		picker:     NewPicker(CommunityPickerItems(community.GroupByCategory(communities), sel)),
		statusBar:  NewStatusBar(),
		spinner:    s,
	}
	m.buildForm()

	var notices []string
	for _, p := range []capability.Probe{cfg.Dates, cfg.Images} {
		if !p.Available() {
			notices = append(notices, p.Notice())
		}
	}
	if len(notices) > 0 {
		m.overlay = NewNoticeOverlay("Limited input", strings.Join(notices, "\n"))
	}
	m.refreshStatus()
	return m
}

func infoFromDraft(d profile.Draft) *basicInfo {
	return &basicInfo{
		displayName: d.DisplayName,
		email:       d.Email,
		birthDate:   d.BirthDateString(),
		image:       d.ProfileImage,
		username:    d.Username,
		password:    d.Password,
	}
}

func (m *WizardModel) buildForm() {
	fields := []huh.Field{
		huh.NewInput().Title("Display name").Value(&m.info.displayName),
		huh.NewInput().Title("Email").Value(&m.info.email),
		huh.NewInput().
			Title("Birth date").
			Placeholder("YYYY-MM-DD").
			Description(m.dates.Notice()).
			Validate(m.checkDate).
			Value(&m.info.birthDate),
	}
	if m.images.Available() {
		fields = append(fields, huh.NewInput().
			Title("Profile photo").
			Description("optional: image path or URL").
			Validate(m.checkImage).
			Value(&m.info.image))
	}
	fields = append(fields,
		huh.NewInput().Title("Username").Value(&m.info.username),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.info.password),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false)
	if m.width > 0 {
		m.form = m.form.WithWidth(min(m.width-4, 60))
	}
}

// checkDate accepts blank input; a missing date is reported by the step gate.
func (m WizardModel) checkDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := m.parseDate(s)
	return err
}

func (m WizardModel) parseDate(s string) (time.Time, error) {
	if m.dates.Available() {
		return m.dates.Parse(s)
	}
	return profile.ParseBirthDate(s)
}

func (m WizardModel) checkImage(s string) error {
	_, err := m.images.Resolve(s)
	return err
}

func (m WizardModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.SetWidth(msg.Width)
		m.canvas.SetWidth(msg.Width - 2)
		m.canvas.SetHeight(m.bodyHeight())
		m.picker.SetWidth(msg.Width)
		m.picker.SetHeight(m.bodyHeight())
		if m.controller.Step() == wizard.BasicInfo {
			m.form = m.form.WithWidth(min(msg.Width-4, 60))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubmitDoneMsg:
		return m.handleOutcome(msg.Outcome)

	case ToggleMsg:
		if err := m.controller.Toggle(msg.ID); err != nil {
			return m, nil
		}
		m.syncSelection()
		return m, nil

	case OverlayCloseMsg:
		if m.leaving {
			m.leaving = false
			if msg.Confirmed {
				return m.abort()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.abort()
		}
		if m.overlay.Active() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}
		if msg.String() == "esc" && m.controller.Step() == wizard.BasicInfo {
			m.overlay = NewConfirmOverlay("Leave setup?", "Nothing has been saved yet.")
			m.leaving = true
			return m, nil
		}
		if m.controller.Step() == wizard.CommunitySelection {
			return m.updateSelection(msg)
		}
	}

	if m.controller.Step() == wizard.BasicInfo {
		return m.updateForm(msg)
	}
	return m, nil
}

// abort tears the wizard down; a pending submission's result is discarded.
func (m WizardModel) abort() (WizardModel, tea.Cmd) {
	m.controller.Teardown()
	m.Aborted = true
	return m, tea.Quit
}

func (m WizardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m.completeBasicInfo()
	}
	return m, cmd
}

// completeBasicInfo hands the form values to the controller and advances.
// On failure the form is rebuilt with the values kept.
func (m WizardModel) completeBasicInfo() (WizardModel, tea.Cmd) {
	draft := profile.Draft{
		DisplayName: strings.TrimSpace(m.info.displayName),
		Email:       strings.TrimSpace(m.info.email),
		Username:    strings.TrimSpace(m.info.username),
		Password:    m.info.password,
	}
	if strings.TrimSpace(m.info.birthDate) != "" {
		t, err := m.parseDate(m.info.birthDate)
		if err != nil {
			return m.retryForm(err.Error())
		}
		draft.BirthDate = t
	}
	if m.images.Available() {
		uri, err := m.images.Resolve(m.info.image)
		if err != nil {
			return m.retryForm(err.Error())
		}
		draft.ProfileImage = uri
	}

	if err := m.controller.SetDraft(draft); err != nil {
		return m.retryForm(err.Error())
	}
	if err := m.controller.Next(); err != nil {
		return m.retryForm(err.Error())
	}

	m.formErr = ""
	m.syncSelection()
	m.refreshStatus()
	return m, nil
}

func (m WizardModel) retryForm(message string) (WizardModel, tea.Cmd) {
	m.formErr = message
	m.buildForm()
	return m, m.form.Init()
}

func (m WizardModel) updateSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "v":
		if m.mode == ViewBubbles {
			m.mode = ViewList
		} else {
			m.mode = ViewBubbles
		}
		m.refreshStatus()
		return m, nil
	case "b", "esc":
		if err := m.controller.Previous(); err != nil {
			return m, nil
		}
		m.buildForm()
		m.refreshStatus()
		return m, m.form.Init()
	case "ctrl+s":
		return m.startSubmit()
	}

	var cmd tea.Cmd
	if m.mode == ViewBubbles {
		m.canvas, cmd = m.canvas.Update(msg)
	} else {
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

// startSubmit runs the submission off the UI goroutine and reports back
// with SubmitDoneMsg.
func (m WizardModel) startSubmit() (WizardModel, tea.Cmd) {
	if m.submitting || m.controller.InFlight() {
		return m, nil
	}
	m.submitting = true
	m.refreshStatus()

	ctx, ctrl, sub, token := m.ctx, m.controller, m.submitter, m.token
	submit := func() tea.Msg {
		return SubmitDoneMsg{Outcome: ctrl.Submit(ctx, sub, token)}
	}
	return m, tea.Batch(m.spinner.Tick, submit)
}

func (m WizardModel) handleOutcome(out wizard.Outcome) (WizardModel, tea.Cmd) {
	m.submitting = false
	m.refreshStatus()

	switch out.Kind {
	case wizard.OutcomeCompleted, wizard.OutcomeSessionExpired:
		m.Result = out
		m.Done = true
		return m, tea.Quit
	case wizard.OutcomeDiscarded:
		return m, nil
	default:
		m.overlay = NewNoticeOverlay("Could not finish setup", out.Message)
		return m, nil
	}
}

func (m *WizardModel) syncSelection() {
	sel := m.controller.Selection()
	m.canvas.SyncSelection(sel)
	m.picker.SyncSelection(sel)
	m.refreshStatus()
}

func (m *WizardModel) refreshStatus() {
	m.statusBar.Update(SelectionSummary{
		Selected: m.controller.Selection().Len(),
		Total:    len(m.controller.Communities()),
		Step:     m.controller.Step(),
		Mode:     m.mode,
	}, m.submitting)
}

// bodyHeight is the space left after the header and status bar.
func (m WizardModel) bodyHeight() int {
	return max(m.height-4, 3)
}

func (m WizardModel) View() string {
	if m.Done || m.Aborted {
		return ""
	}

	var b strings.Builder
	step := m.controller.Step()
	title := "Tell us about yourself"
	if step == wizard.CommunitySelection {
		title = "Pick your communities"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(StepStyle.Render(stepLabel(step)))
	b.WriteString("\n\n")

	switch {
	case step == wizard.BasicInfo:
		if m.formErr != "" {
			b.WriteString(ErrorStyle.Render(m.formErr))
			b.WriteString("\n")
		}
		b.WriteString(m.form.View())
	case m.submitting:
		b.WriteString(m.spinner.View() + " Saving your profile...")
	case m.mode == ViewBubbles:
		b.WriteString(m.canvas.View())
	default:
		b.WriteString(m.picker.View())
	}

	body := lipgloss.NewStyle().Height(m.bodyHeight() + 2).Render(b.String())
	frame := body + "\n" + m.statusBar.View()

	if m.overlay.Active() && m.width > 0 && m.height > 0 {
		return Composite(frame, m.overlay.View(), m.width, m.height)
	}
	if m.overlay.Active() {
		return frame + "\n" + m.overlay.View()
	}
	return frame
}

func stepLabel(s wizard.Step) string {
	if s == wizard.CommunitySelection {
		return "Step 2 of 2"
	}
	return "Step 1 of 2"
}
