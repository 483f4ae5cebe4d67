// This file is part of Timekeeper.
//
// Timekeeper is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Timekeeper is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Timekeeper.  If not, see <https://www.gnu.org/licenses/>.

// Package screen models the timing of a raster display. There is no picture,
// only the timing signals that a CPU would see: a vertical blank at the start
// of every frame and the scanline counter.
//
// The vertical blank is a periodic timer. The scanline counter is a one-shot
// timer that rearms itself from inside its own callback, once for every
// scanline. The vertical blank callback restarts the scanline timer at the
// start of the next frame.
package screen

import (
	"fmt"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Sentinal error patterns.
const (
	BadGeometry = "screen: bad geometry (%dHz, %d lines)"
)

// IRQ is the interrupt line raised at the start of every frame.
type IRQ interface {
	SetIRQ(bool)
}

// Screen generates frame and scanline timing.
type Screen struct {
	sch *timer.Scheduler
	irq IRQ

	lines       int
	framePeriod vtime.Time
	linePeriod  vtime.Time

	vblank timer.Handle
	line   timer.Handle

	// the current frame and scanline
	Frame    uint64
	Scanline int

	// called at the start of every frame. may be nil
	OnFrame func(frame uint64)
}

// NewScreen is the preferred method of initialisation for the Screen type.
// The irq argument may be nil.
func NewScreen(sch *timer.Scheduler, irq IRQ, refresh uint64, lines int) (*Screen, error) {
	if refresh == 0 || lines <= 0 {
		return nil, curated.Errorf(BadGeometry, refresh, lines)
	}

	scr := &Screen{
		sch:         sch,
		irq:         irq,
		lines:       lines,
		framePeriod: vtime.FromHz(refresh),
	}
	scr.linePeriod = scr.framePeriod.Div(uint64(lines))

	scr.vblank = sch.Pulse(scr.framePeriod, 0, scr.startFrame, "screen: vblank")
	scr.line = sch.Allocate(scr.nextLine, 0, "screen: scanline", false)
	sch.Adjust(scr.line, scr.linePeriod, 1, vtime.Zero)

	return scr, nil
}

func (scr *Screen) String() string {
	return fmt.Sprintf("frame=%d scanline=%d", scr.Frame, scr.Scanline)
}

// FramePeriod returns the duration of a frame.
func (scr *Screen) FramePeriod() vtime.Time {
	return scr.framePeriod
}

// LinePeriod returns the duration of a scanline.
func (scr *Screen) LinePeriod() vtime.Time {
	return scr.linePeriod
}

func (scr *Screen) startFrame(_ int) {
	scr.Frame++
	scr.Scanline = 0
	scr.sch.Adjust(scr.line, scr.linePeriod, 1, vtime.Zero)

	if scr.irq != nil {
		scr.irq.SetIRQ(true)
	}
	if scr.OnFrame != nil {
		scr.OnFrame(scr.Frame)
	}
}

func (scr *Screen) nextLine(line int) {
	scr.Scanline = line
	if line+1 < scr.lines {
		scr.sch.Adjust(scr.line, scr.linePeriod, line+1, vtime.Zero)
	}
}

// AttachState registers the state of the screen.
func (scr *Screen) AttachState(reg timer.Registrar) error {
	if err := reg.Register("screen/frame", &scr.Frame); err != nil {
		return err
	}
	return reg.Register("screen/scanline", &scr.Scanline)
}
