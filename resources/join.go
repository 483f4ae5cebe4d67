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

package resources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/timekeeper/curated"
)

// the name of the resource directory when located in the user's config
// directory.
const baseDir = "timekeeper"

// the name of the portable resource directory. it is only used if it exists
// in the current working directory.
const portableDir = ".timekeeper"

func resourcePath() (string, error) {
	if info, err := os.Stat(portableDir); err == nil && info.IsDir() {
		return portableDir, nil
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", curated.Errorf("resources: %v", err)
	}

	return filepath.Join(cfg, baseDir), nil
}

// JoinPath prepends the resource path to the supplied path elements. The
// directory of the final path is created if it does not exist.
func JoinPath(path ...string) (string, error) {
	b, err := resourcePath()
	if err != nil {
		return "", err
	}

	p := filepath.Join(path...)

	// do not prepend base path if it is already present
	if !strings.HasPrefix(p, b) {
		p = filepath.Join(b, p)
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", curated.Errorf("resources: %v", err)
	}

	return p, nil
}
