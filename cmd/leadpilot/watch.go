package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/backend"
	"github.com/leadpilot/leadpilot/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch [job-id]",
	Short: "Watch a bulk send job in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&configFile, "config", "c", "/etc/leadpilot/leadpilot.yaml", "Path to configuration file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey)
	client.SetTimeout(cfg.Backend.Timeout)

	m := watchModel{
		client:   client,
		jobID:    args[0],
		interval: cfg.Polling.JobInterval,
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginTop(1).
			MarginBottom(1)

	watchOkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	watchErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	watchDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	watchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)
)

type jobUpdateMsg struct {
	job *backend.BulkJob
	err error
}

type jobCommandMsg struct {
	job *backend.BulkJob
	err error
}

type watchTickMsg struct{}

type watchModel struct {
	client   *backend.Client
	jobID    string
	interval time.Duration

	job     *backend.BulkJob
	fetched bool
	err     error
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(fetchJob(m.client, m.jobID), watchTick(m.interval))
}

func fetchJob(client *backend.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		job, err := client.GetBulkJob(ctx, id)
		return jobUpdateMsg{job: job, err: err}
	}
}

func sendJobCommand(call func(context.Context, string) (*backend.BulkJob, error), id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		job, err := call(ctx, id)
		return jobCommandMsg{job: job, err: err}
	}
}

func watchTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case watchTickMsg:
		if m.job != nil && m.job.Status.Terminal() {
			return m, nil
		}
		return m, tea.Batch(fetchJob(m.client, m.jobID), watchTick(m.interval))
	case jobUpdateMsg:
		m.fetched = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.job = msg.job
		return m, nil
	case jobCommandMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.job = msg.job
		return m, nil
	}
	return m, nil
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		if m.job != nil && (m.job.Status == backend.JobPending || m.job.Status == backend.JobPaused) {
			return m, sendJobCommand(m.client.StartBulkJob, m.jobID)
		}
	case "p":
		if m.job != nil && m.job.Status == backend.JobRunning {
			return m, sendJobCommand(m.client.PauseBulkJob, m.jobID)
		}
	case "x":
		if m.job != nil && !m.job.Status.Terminal() {
			return m, sendJobCommand(m.client.CancelBulkJob, m.jobID)
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(watchTitleStyle.Render("LeadPilot Bulk Job"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(watchErrStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if !m.fetched {
		b.WriteString(watchDimStyle.Render("Loading..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.job == nil {
		b.WriteString(watchDimStyle.Render(fmt.Sprintf("Job %s not found", m.jobID)))
		b.WriteString("\n\n")
		b.WriteString(watchDimStyle.Render("Press 'q' or Ctrl+C to quit"))
		b.WriteString("\n")
		return b.String()
	}

	job := m.job

	var info strings.Builder
	name := job.BroadcastName
	if name == "" {
		name = job.ID
	}
	info.WriteString(fmt.Sprintf("%s\n", name))
	if job.TemplateName != "" {
		info.WriteString(watchDimStyle.Render(fmt.Sprintf("Template: %s", job.TemplateName)))
		info.WriteString("\n")
	}
	info.WriteString("\n")

	statusStyle := watchOkStyle
	if job.Status == backend.JobFailed || job.Status == backend.JobCancelled {
		statusStyle = watchErrStyle
	}
	info.WriteString(fmt.Sprintf("Status: %s\n", statusStyle.Render(string(job.Status))))
	info.WriteString(fmt.Sprintf("%s %.0f%%\n", progressBar(job.ProgressPercent, 30), job.ProgressPercent))
	info.WriteString(fmt.Sprintf("Sent: %d  Failed: %d  Pending: %d  Total: %d",
		job.SentCount, job.FailedCount, job.PendingCount, job.TotalCount))

	b.WriteString(watchBoxStyle.Render(info.String()))
	b.WriteString("\n\n")

	if job.Status.Terminal() {
		b.WriteString(watchDimStyle.Render("Job finished. Press 'q' or Ctrl+C to exit"))
	} else {
		b.WriteString(watchDimStyle.Render("s: start/resume | p: pause | x: cancel | q: quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
