// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package pbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const MinRefreshRate = time.Millisecond * 500

const barLength = 20

// ProgressBarState renders the number of traces scanned. Update may be
// called from several goroutines.
type ProgressBarState struct {
	mu  sync.Mutex
	out io.Writer

	TotalTraces         int
	ProcessedTraces     int
	StartTime           time.Time
	LastUpdateTime      time.Time
	LastProcessedTraces int
}

func NewProgressBarState(out io.Writer, totalTraces int) *ProgressBarState {
	now := time.Now()
	return &ProgressBarState{
		out:            out,
		TotalTraces:    totalTraces,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records done processed traces and redraws at most every
// MinRefreshRate.
func (pbs *ProgressBarState) Update(done int) {
	pbs.mu.Lock()
	defer pbs.mu.Unlock()

	pbs.ProcessedTraces = max(pbs.ProcessedTraces, done)
	pbs.render(false)
}

func (pbs *ProgressBarState) render(force bool) {
	if !force && time.Since(pbs.LastUpdateTime) < MinRefreshRate {
		return
	}

	percentage := 100.0
	if pbs.TotalTraces > 0 {
		percentage = float64(pbs.ProcessedTraces) / float64(pbs.TotalTraces) * 100
	}

	filledLen := int(float64(barLength) * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	var speed float64
	if elapsed := time.Since(pbs.LastUpdateTime).Seconds(); elapsed > 0 {
		speed = float64(pbs.ProcessedTraces-pbs.LastProcessedTraces) / elapsed
	}

	var etaStr string
	if pbs.ProcessedTraces > 0 && speed > 0 {
		etaSeconds := float64(pbs.TotalTraces-pbs.ProcessedTraces) / speed
		etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	} else {
		etaStr = "calculating..."
	}

	pbs.LastUpdateTime = time.Now()
	pbs.LastProcessedTraces = pbs.ProcessedTraces

	// \r rewinds to the start of the line; trailing spaces clear leftovers
	// of a longer previous line.
	fmt.Fprintf(pbs.out, "\r[INFO] Progress: [%s] %3.0f%% (%d/%d traces) | @ %.0f traces/s [%s]    ",
		bar,
		percentage,
		pbs.ProcessedTraces,
		pbs.TotalTraces,
		speed,
		etaStr)
}

// Finish draws the final state and moves to the next line.
func (pbs *ProgressBarState) Finish() {
	pbs.mu.Lock()
	defer pbs.mu.Unlock()

	pbs.render(true)
	fmt.Fprintln(pbs.out)
}
