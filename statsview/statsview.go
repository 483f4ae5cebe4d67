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


package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/jetsetilly/timekeeper/logger"
)

// Address is the default address of the server.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Server is a running statsview instance.
type Server struct {
	addr string
	mgr  *statsview.ViewManager
	stop sync.Once
}

// Launch a new goroutine running the statsview at the specified address. An
// empty address means the default Address is used.
func Launch(output io.Writer, addr string) *Server {
	if addr == "" {
		addr = Address
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	srv := &Server{
		addr: addr,
		mgr:  statsview.New(),
	}

	go func() {
		srv.mgr.Start()
	}()

	logger.Logf(logger.Allow, "statsview", "launched at %s", addr)
	if output != nil {
		output.Write([]byte(fmt.Sprintf("stats server available at %s%s\n", addr, url)))
	}

	return srv
}

// URL of the statistics page.
func (srv *Server) URL() string {
	return fmt.Sprintf("http://%s%s", srv.addr, url)
}

// Stop the server. Safe to call more than once.
func (srv *Server) Stop() {
	srv.stop.Do(func() {
		srv.mgr.Stop()
		logger.Log(logger.Allow, "statsview", "stopped")
	})
}
