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

// Package beeper is a square wave generator. The output is sampled by a
// periodic timer running at the sample rate. A tone is started with Tone()
// and is stopped by a one-shot timer once its duration has passed.
//
// The level of the wave is calculated from the time of the sample, rather
// than by counting samples, so the wave is exact regardless of the ratio
// between the tone frequency and the sample rate.
package beeper

import (
	"fmt"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Sentinal error patterns.
const (
	BadRate = "beeper: sample rate must not be zero"
)

// Amplitude of the square wave.
const Amplitude = 8192

// Beeper is a square wave generator.
type Beeper struct {
	sch  *timer.Scheduler
	rate uint64

	tick timer.Handle
	off  timer.Handle

	// the frequency of the current tone. zero if there is no tone
	freq      uint64
	toneStart vtime.Time

	samples []int

	// the number of tones started
	Tones uint64
}

// NewBeeper is the preferred method of initialisation for the Beeper type.
func NewBeeper(sch *timer.Scheduler, rate uint64) (*Beeper, error) {
	if rate == 0 {
		return nil, curated.Errorf(BadRate)
	}

	bp := &Beeper{
		sch:  sch,
		rate: rate,
	}
	bp.tick = sch.Pulse(vtime.FromHz(rate), 0, bp.sample, "beeper: sample")
	bp.off = sch.Allocate(func(_ int) {
		bp.freq = 0
	}, 0, "beeper: tone off", false)

	return bp, nil
}

func (bp *Beeper) String() string {
	if bp.freq == 0 {
		return "silent"
	}
	return fmt.Sprintf("%dHz", bp.freq)
}

// SampleRate returns the number of samples per second.
func (bp *Beeper) SampleRate() uint64 {
	return bp.rate
}

// Tone starts a square wave of the frequency for the duration. Any tone
// already playing is replaced.
func (bp *Beeper) Tone(freq uint64, duration vtime.Time) {
	bp.freq = freq
	bp.toneStart = bp.sch.Now()
	bp.sch.Adjust(bp.off, duration, 0, vtime.Zero)
	bp.Tones++
}

// Silence stops the current tone.
func (bp *Beeper) Silence() {
	bp.freq = 0
	bp.sch.Enable(bp.off, false)
}

// Playing returns true if a tone is playing.
func (bp *Beeper) Playing() bool {
	return bp.freq != 0
}

func (bp *Beeper) sample(_ int) {
	if bp.freq == 0 {
		bp.samples = append(bp.samples, 0)
		return
	}

	// the number of half cycles since the start of the tone
	n := bp.sch.Now().Sub(bp.toneStart).Cycles(bp.freq * 2)
	if n%2 == 0 {
		bp.samples = append(bp.samples, Amplitude)
	} else {
		bp.samples = append(bp.samples, -Amplitude)
	}
}

// Drain returns the samples generated since the previous call to Drain().
func (bp *Beeper) Drain() []int {
	s := bp.samples
	bp.samples = nil
	return s
}

// AttachState registers the state of the beeper.
func (bp *Beeper) AttachState(reg timer.Registrar) error {
	if err := reg.Register("beeper/freq", &bp.freq); err != nil {
		return err
	}
	return reg.Register("beeper/start", &bp.toneStart)
}
