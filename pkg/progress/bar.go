package progress

import (
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	padding  = 2
	minWidth = 10
	maxWidth = 60
)

type percentMsg float64

type finishMsg struct{}

type barModel struct {
	label   string
	bar     progress.Model
	percent float64
}

func (m barModel) Init() tea.Cmd {
	return nil
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-lipgloss.Width(m.label)-padding*2, maxWidth), minWidth)
		return m, nil
	case percentMsg:
		m.percent = float64(msg)
		return m, nil
	case finishMsg:
		m.percent = 1
		return m, tea.Quit
	}
	return m, nil
}

func (m barModel) View() string {
	return m.label + " " + m.bar.ViewAs(m.percent) + "\n"
}

// Bar renders an interactive progress bar. Each Start runs a bubbletea
// program that is torn down again by Finish.
type Bar struct {
	out     io.Writer
	program *tea.Program
	done    chan struct{}
	total   int64
}

// NewBar creates a Bar rendering to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

func (b *Bar) Start(name string, total int64) {
	if b.program != nil {
		b.Finish()
	}

	m := barModel{
		label: label(name),
		bar:   newProgressModel(),
	}
	b.total = total
	b.done = make(chan struct{})
	b.program = tea.NewProgram(m,
		tea.WithOutput(b.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	p, done := b.program, b.done
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
}

func newProgressModel() progress.Model {
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth/2))
}

func (b *Bar) Update(read int64) {
	if b.program == nil || b.total <= 0 {
		return
	}
	b.program.Send(percentMsg(float64(read) / float64(b.total)))
}

func (b *Bar) Finish() {
	if b.program == nil {
		return
	}
	b.program.Send(finishMsg{})
	<-b.done
	b.program = nil
}
