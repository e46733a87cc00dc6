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
	"path/filepath"
	"runtime"
)

// AllocFailure indicates a transient region-list node could not be
// acquired from a per-subvolume arena. The current query must abort;
// the caller is responsible for the emergency trigger-buffer flush.
type AllocFailure struct {
	Subvolume int
}

func (e *AllocFailure) Error() string {
	return fmt.Sprintf("countspace: out of arena memory for transient region-list node in subvolume %d", e.Subvolume)
}

// NonManifoldRegion is returned when an ENCLOSING counter is requested
// for a region whose walls do not form a closed, watertight surface.
type NonManifoldRegion struct {
	Region string
}

func (e *NonManifoldRegion) Error() string {
	return fmt.Sprintf("countspace: region %q is not manifold; cannot host an ENCLOSING counter", e.Region)
}

// UnreachedWaypointTarget is logged (not necessarily fatal) when a
// waypoint-to-waypoint ray sweep fails to converge within tolerance.
type UnreachedWaypointTarget struct {
	From, To [3]float64
	Residual float64
}

func (e *UnreachedWaypointTarget) Error() string {
	return fmt.Sprintf("countspace: didn't quite reach waypoint target, fudging (residual=%g)", e.Residual)
}

// BufferOverflow is returned when a trigger listener's event buffer is
// full and an attempted flush failed.
type BufferOverflow struct {
	Listener string
	Cause    error
}

func (e *BufferOverflow) Error() string {
	return fmt.Sprintf("countspace: trigger buffer overflow for listener %q: %v", e.Listener, e.Cause)
}

func (e *BufferOverflow) Unwrap() error { return e.Cause }

// InvalidRequest is returned for init-time configuration errors: an
// orientation filter on a volume molecule, a count requested on a
// meta-object, or a broken object reference.
type InvalidRequest struct {
	Reason string
}

func (e *InvalidRequest) Error() string {
	return fmt.Sprintf("countspace: invalid request: %s", e.Reason)
}

// fatal wraps an error with the file/line of the call site, matching
// the diagnostic format required by spec §7: filename, line number,
// one human-sentence cause.
func fatal(where string, err error) error {
	if _, file, line, ok := runtime.Caller(1); ok {
		return fmt.Errorf("%s:%d: %s: %w", filepath.Base(file), line, where, err)
	}
	return fmt.Errorf("%s: %w", where, err)
}
