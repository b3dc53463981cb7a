package progress

import (
	"bytes"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingReporter struct {
	starts   []string
	updates  []int64
	finishes int
}

func (r *recordingReporter) Start(name string, _ int64) { r.starts = append(r.starts, name) }
func (r *recordingReporter) Update(read int64)          { r.updates = append(r.updates, read) }
func (r *recordingReporter) Finish()                    { r.finishes++ }

var _ = ginkgo.Describe("Reader", func() {
	ginkgo.It("reports cumulative bytes read", func() {
		rec := &recordingReporter{}
		r := NewReader(strings.NewReader("hello world"), rec)

		buf := make([]byte, 4)
		for {
			_, err := r.Read(buf)
			if err == io.EOF {
				break
			}
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(rec.updates).To(Equal([]int64{4, 8, 11}))
		Expect(r.BytesRead()).To(Equal(int64(11)))
	})

	ginkgo.It("tolerates a nil reporter", func() {
		r := NewReader(strings.NewReader("abc"), nil)
		data, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("abc"))
	})
})

var _ = ginkgo.Describe("NopReporter", func() {
	ginkgo.It("implements Reporter", func() {
		var r Reporter = NewNopReporter()
		r.Start("x", 1)
		r.Update(1)
		r.Finish()
	})
})

var _ = ginkgo.Describe("New", func() {
	ginkgo.It("falls back to a line reporter for non-terminal writers", func() {
		Expect(New(&bytes.Buffer{})).To(BeAssignableToTypeOf(&Line{}))
	})
})

var _ = ginkgo.Describe("Line", func() {
	ginkgo.It("writes one line with the final percentage on Finish", func() {
		var out bytes.Buffer
		l := NewLine(&out)

		l.Start("cat.png", 200)
		l.Update(100)
		Expect(out.String()).To(BeEmpty())
		l.Update(200)
		l.Finish()

		Expect(out.String()).To(ContainSubstring("Uploading cat.png"))
		Expect(out.String()).To(ContainSubstring("100%"))
		Expect(out.String()).To(ContainSubstring("200 of 200"))
	})

	ginkgo.It("ignores Finish without Start", func() {
		var out bytes.Buffer
		NewLine(&out).Finish()
		Expect(out.String()).To(BeEmpty())
	})

	ginkgo.It("writes once per Start", func() {
		var out bytes.Buffer
		l := NewLine(&out)
		l.Start("a.png", 10)
		l.Finish()
		l.Finish()
		Expect(strings.Count(out.String(), "\n")).To(Equal(1))
	})
})

var _ = ginkgo.Describe("barModel", func() {
	newModel := func() barModel {
		return barModel{label: label("dog.jpg"), bar: newProgressModel()}
	}

	ginkgo.It("tracks the percentage sent to it", func() {
		m, cmd := newModel().Update(percentMsg(0.5))
		Expect(cmd).To(BeNil())
		Expect(m.(barModel).percent).To(Equal(0.5))
		Expect(m.View()).To(ContainSubstring("50%"))
	})

	ginkgo.It("completes and quits on finish", func() {
		m, cmd := newModel().Update(finishMsg{})
		Expect(m.(barModel).percent).To(Equal(1.0))
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
	})

	ginkgo.It("clamps the bar width to the window", func() {
		m, _ := newModel().Update(tea.WindowSizeMsg{Width: 5})
		Expect(m.(barModel).bar.Width).To(Equal(minWidth))

		m, _ = newModel().Update(tea.WindowSizeMsg{Width: 500})
		Expect(m.(barModel).bar.Width).To(Equal(maxWidth))
	})
})

var _ = ginkgo.Describe("Bar", func() {
	ginkgo.It("runs and tears down one program per transfer", func() {
		b := NewBar(&bytes.Buffer{})

		b.Start("first.png", 10)
		b.Update(5)
		b.Finish()
		Expect(b.program).To(BeNil())

		b.Start("second.png", 10)
		b.Update(10)
		b.Finish()
		Expect(b.program).To(BeNil())
	})

	ginkgo.It("ignores updates and finish when idle", func() {
		b := NewBar(&bytes.Buffer{})
		b.Update(1)
		b.Finish()
		Expect(b.program).To(BeNil())
	})
})
