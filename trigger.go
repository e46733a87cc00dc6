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

import "github.com/go-gl/mathgl/mgl64"

// RegisterTriggerListener appends a listener request to a TRIG
// counter. Listener lists are append-only for the life of the
// counter, per the ownership rules in spec.md §3.
func RegisterTriggerListener(c *Counter, l *TriggerListener) {
	if c.Trig == nil {
		c.Trig = &TrigCounterData{}
	}
	c.Trig.Listeners = append(c.Trig.Listeners, l)
}

// DispatchTrigger fires a TRIG counter update (component G, §4.G):
// stamps the event location on the counter, then appends a record to
// every listener whose ReportType matches `what`, flushing any
// listener buffer that reaches its configured size.
func DispatchTrigger(ctx *SimContext, c *Counter, what ReportType, t float64, loc mgl64.Vec3, orient Orient, n int, name string) error {
	if c.Trig == nil {
		return nil
	}
	c.Trig.TEvent = t
	c.Trig.Loc = loc
	c.Trig.Orient = orient

	for _, l := range c.Trig.Listeners {
		count := n
		rt := l.ReportType &^ (ReportTrigger | ReportEnclosed)
		matched := rt&what != 0
		if !matched && rt&ReportAllHits != 0 && what&(ReportFrontHits|ReportBackHits) != 0 {
			matched = true
			if what&ReportBackHits != 0 {
				count = -n
			}
		}
		if !matched && rt&ReportAllCrossings != 0 && what&(ReportFrontCrossings|ReportBackCrossings) != 0 {
			matched = true
			if what&ReportBackCrossings != 0 {
				count = -n
			}
		}
		if !matched {
			continue
		}
		rec := TriggerRecord{
			IterTime:     t,
			ExactTime:    t,
			HasExactTime: l.ExactTime,
			Loc:          loc,
			Orient:       orient,
			Count:        count,
			Name:         l.Name,
		}
		switch {
		case what&ReportRxns != 0:
			rec.Kind = ReactionRecord
		case what&(ReportFrontHits|ReportBackHits|ReportAllHits) != 0:
			rec.Kind = HitRecord
		default:
			rec.Kind = ContentsRecord
		}
		l.buffer = append(l.buffer, rec)
		if l.BufferSize > 0 && len(l.buffer) >= l.BufferSize {
			if err := flushListener(ctx, l); err != nil {
				return &BufferOverflow{Listener: l.Name, Cause: err}
			}
		}
	}
	return nil
}

func flushListener(ctx *SimContext, l *TriggerListener) error {
	for _, rec := range l.buffer {
		if err := ctx.Output.AppendTrigger(l.FileID, rec); err != nil {
			return err
		}
	}
	l.buffer = l.buffer[:0]
	if _, err := ctx.Output.FlushAll(); err != nil {
		return err
	}
	return nil
}

// FlushPeriodic flushes every listener's buffer regardless of whether
// it has reached BufferSize, for use at iteration boundaries — the
// periodic-flush behavior react_output.c implements alongside its
// buffer-full flush (see SPEC_FULL.md "Supplemented features").
func FlushPeriodic(ctx *SimContext, listeners []*TriggerListener) error {
	for _, l := range listeners {
		if len(l.buffer) == 0 {
			continue
		}
		if err := flushListener(ctx, l); err != nil {
			return &BufferOverflow{Listener: l.Name, Cause: err}
		}
	}
	return nil
}

// EmergencyFlush flushes every listener across every TRIG counter in
// the table, ignoring per-listener BufferSize thresholds. The CLI
// driver runs it before exiting on a fatal error (§5, §7). No signal
// handler is installed, so it does not run on a crash signal.
func EmergencyFlush(ctx *SimContext) {
	var listeners []*TriggerListener
	for _, head := range ctx.Counters.buckets {
		for c := head; c != nil; c = c.next {
			if c.Key.Flavor == TRIG && c.Trig != nil {
				listeners = append(listeners, c.Trig.Listeners...)
			}
		}
	}
	if err := FlushPeriodic(ctx, listeners); err != nil {
		logDiagnostic("emergency flush failed: %v", err)
	}
}
