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


// Package wavwriter allows writing of beeper samples to disk as a WAV file.
// Samples are buffered in memory in their entirety and written to disk when
// EndMixing() is called. It is therefore only suitable for short demos and
// for testing.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/vtime"
)

const (
	bitDepth    = 16
	numChannels = 1

	// PCM in the WAVE format tag
	formatPCM = 1
)

// WavWriter buffers mono samples for writing to a WAV file.
type WavWriter struct {
	filename string
	rate     int
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, sampleRate uint64) (*WavWriter, error) {
	if sampleRate == 0 {
		return nil, curated.Errorf("wavwriter: sample rate cannot be zero")
	}

	aw := &WavWriter{
		filename: filename,
		rate:     int(sampleRate),
		buffer:   make([]int, 0, sampleRate),
	}

	return aw, nil
}

// SetAudio appends samples to the buffer. Samples outside of the signed
// 16bit range are clipped.
func (aw *WavWriter) SetAudio(samples []int) error {
	for _, s := range samples {
		if s > 32767 {
			s = 32767
		} else if s < -32768 {
			s = -32768
		}
		aw.buffer = append(aw.buffer, s)
	}
	return nil
}

// Len returns the number of buffered samples.
func (aw *WavWriter) Len() int {
	return len(aw.buffer)
}

// Duration of the buffered audio.
func (aw *WavWriter) Duration() vtime.Time {
	return vtime.FromCycles(uint64(len(aw.buffer)), uint64(aw.rate))
}

// EndMixing writes the buffered samples to the file.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.rate, bitDepth, numChannels, formatPCM)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad encoder")
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  aw.rate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	err = enc.Write(buf)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	err = enc.Close()
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	logger.Logf(logger.Allow, "wavwriter", "wrote %d samples (%s) to %s", len(aw.buffer), aw.Duration(), aw.filename)

	return nil
}
