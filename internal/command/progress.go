// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/staranto/confdoc/internal/collection"
)

const progressWidth = 40

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressBar redraws a single line on w as a collection is built.
type progressBar struct {
	w     io.Writer
	model progress.Model
	total int
}

// newProgress returns a bar drawing on w, or nil when disabled or w is not a
// terminal.
func newProgress(w io.Writer, enabled bool) collection.Progress {
	if !enabled || !isTerminal(w) {
		return nil
	}
	return &progressBar{
		w:     w,
		model: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

func (p *progressBar) Start(total int) {
	p.total = total
	p.draw(0)
}

func (p *progressBar) Update(done int) {
	p.draw(done)
}

// Finish clears the bar so later output starts on a clean line.
func (p *progressBar) Finish() {
	fmt.Fprint(p.w, "\r\x1b[K")
}

func (p *progressBar) draw(done int) {
	pct := 1.0
	if p.total > 0 {
		pct = float64(done) / float64(p.total)
	}
	fmt.Fprintf(p.w, "\r%s %s/%s", p.model.ViewAs(pct),
		humanize.Comma(int64(done)), humanize.Comma(int64(p.total)))
}
