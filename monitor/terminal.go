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


package monitor

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/pkg/term"
)

// keypress reports whether a key has been pressed since start().
type keypress interface {
	start() error
	stop()
	pressed() bool
}

// ttyKeys watches the controlling terminal for a keypress.
type ttyKeys struct {
	device string
	tty    *term.Term
	hit    atomic.Bool
	done   chan struct{}
	ended  chan struct{}
}

// polling interval of the watcher goroutine
const keyPoll = 50 * time.Millisecond

func (k *ttyKeys) start() error {
	tty, err := term.Open(k.device)
	if err != nil {
		return curated.Errorf("monitor: keypress: %v", err)
	}
	if err := tty.SetCbreak(); err != nil {
		tty.Close()
		return curated.Errorf("monitor: keypress: %v", err)
	}
	if err := tty.SetReadTimeout(keyPoll); err != nil {
		tty.Restore()
		tty.Close()
		return curated.Errorf("monitor: keypress: %v", err)
	}

	k.tty = tty
	k.hit.Store(false)
	k.done = make(chan struct{})
	k.ended = make(chan struct{})

	go func() {
		defer close(k.ended)
		b := make([]byte, 1)
		for {
			select {
			case <-k.done:
				return
			default:
			}
			n, _ := k.tty.Read(b)
			if n > 0 {
				k.hit.Store(true)
				return
			}
		}
	}()

	return nil
}

func (k *ttyKeys) stop() {
	if k.tty == nil {
		return
	}
	close(k.done)
	<-k.ended
	k.tty.Restore()
	k.tty.Close()
	k.tty = nil
}

func (k *ttyKeys) pressed() bool {
	return k.hit.Load()
}

// Run reads commands with readline until the quit command or end of input.
// The run command watches the terminal device for a keypress. An empty
// device disables this and run executes for a fixed number of frames.
func (mon *Monitor) Run(in io.ReadCloser, device string) error {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	keys := make([]string, 0, len(commands))
	for k := range commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		items = append(items, readline.PcItem(k))
	}

	cfg := &readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		Stdin:           in,
		Stdout:          mon.out,
	}

	// line editing is only possible when reading from a terminal
	if f, ok := in.(*os.File); !ok || !readline.IsTerminal(int(f.Fd())) {
		cfg.FuncIsTerminal = func() bool { return false }
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return curated.Errorf("monitor: %v", err)
	}
	defer rl.Close()

	mon.out = rl.Stdout()
	if device != "" {
		mon.keys = &ttyKeys{device: device}
	}

	for !mon.quit {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := mon.Execute(line); err != nil {
			fmt.Fprintln(mon.out, err)
			if curated.Is(err, Halted) {
				return err
			}
		}
	}

	return nil
}
