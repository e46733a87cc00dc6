/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package countspace

import (
	"fmt"
	"log"
	"os"
)

// logger is the package-wide diagnostic sink. Diagnostics are written
// with file/line context, one human-sentence cause per line, per
// spec §7.
var logger = log.New(os.Stderr, "countspace: ", log.Lshortfile)

// SetOutput redirects diagnostic output, primarily for tests.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	logger.SetOutput(w)
}

func logDiagnostic(format string, args ...any) {
	logger.Output(2, fmt.Sprintf(format, args...))
}
