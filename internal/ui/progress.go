package ui

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// Progress is the campaign progress bar; items already in the checkpoint
// count as done from the start.
type Progress struct {
	bar *pb.ProgressBar
}

func NewProgress(w io.Writer, total, done int) *Progress {
	bar := pb.New(total).
		SetTemplateString(progressTemplate).
		SetWriter(w).
		Set("prefix", "players").
		SetCurrent(int64(done))
	return &Progress{bar: bar.Start()}
}

// Increment marks one more item as checkpointed
func (p *Progress) Increment() {
	p.bar.Increment()
}

func (p *Progress) Finish() {
	p.bar.Finish()
}
