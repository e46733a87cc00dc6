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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// TimerType selects whether TriggerRecord.IterTime is a simulation
// time in seconds or a raw iteration index (§6).
type TimerType uint8

const (
	TimeList TimerType = iota
	IterationList
)

// TriggerRecordKind discriminates the three trigger line shapes §6 specifies.
type TriggerRecordKind uint8

const (
	ReactionRecord TriggerRecordKind = iota
	HitRecord
	ContentsRecord
)

// TriggerRecord is one line of trigger output.
type TriggerRecord struct {
	Kind         TriggerRecordKind
	IterTime     float64
	ExactTime    float64
	HasExactTime bool
	Loc          mgl64.Vec3
	Orient       Orient
	Count        int
	Name         string
}

// formatG mimics C's printf("%.<prec>g", v) since Go's strconv has no
// direct equivalent of %g with an explicit significant-digit count.
func formatG(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'g', prec, 64)
	// Go renders the exponent as e+05; C's %g uses e+05 too, so no
	// further massaging is required.
	return s
}

// Format renders the trigger record in the exact space-separated
// layout spec.md §6 requires: %.15g for the iteration-time column,
// %.9g for positions, %.12g for an optional exact event time.
func (r TriggerRecord) Format() string {
	var b strings.Builder
	b.WriteString(formatG(r.IterTime, 15))
	if r.HasExactTime {
		b.WriteByte(' ')
		b.WriteString(formatG(r.ExactTime, 12))
		b.WriteByte(' ')
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(formatG(r.Loc[0], 9))
	b.WriteByte(' ')
	b.WriteString(formatG(r.Loc[1], 9))
	b.WriteByte(' ')
	b.WriteString(formatG(r.Loc[2], 9))

	switch r.Kind {
	case ReactionRecord:
		b.WriteByte(' ')
		b.WriteString(r.Name)
	case HitRecord:
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(r.Orient)))
		b.WriteByte(' ')
		b.WriteString(r.Name)
	case ContentsRecord:
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(int(r.Orient)))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(r.Count))
		b.WriteByte(' ')
		b.WriteString(r.Name)
	}
	return b.String()
}

// OutputWriter is the external output collaborator (§6): trigger
// buffers are flushed to it; a flush failure is fatal to the current
// update (§5, §7).
type OutputWriter interface {
	AppendTrigger(fileID string, rec TriggerRecord) error
	FlushAll() (errCount int, err error)
}

// TextOutputWriter is the reference OutputWriter: one line-oriented
// ASCII file per fileID, buffered the way vargrid.go's CTMData.Write
// buffers gridded variables before a single write-out, adapted here
// from NetCDF variables to plain trigger-record text lines.
type TextOutputWriter struct {
	dir     string
	files   map[string]*os.File
	writers map[string]*bufio.Writer
}

// NewTextOutputWriter creates a writer rooted at dir. Files are
// created lazily on first AppendTrigger for a given fileID.
func NewTextOutputWriter(dir string) *TextOutputWriter {
	return &TextOutputWriter{
		dir:     dir,
		files:   make(map[string]*os.File),
		writers: make(map[string]*bufio.Writer),
	}
}

func (w *TextOutputWriter) writerFor(fileID string) (*bufio.Writer, error) {
	if bw, ok := w.writers[fileID]; ok {
		return bw, nil
	}
	f, err := os.OpenFile(w.dir+"/"+fileID, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	w.files[fileID] = f
	bw := bufio.NewWriter(f)
	w.writers[fileID] = bw
	return bw, nil
}

func (w *TextOutputWriter) AppendTrigger(fileID string, rec TriggerRecord) error {
	bw, err := w.writerFor(fileID)
	if err != nil {
		return err
	}
	if _, err := bw.WriteString(rec.Format()); err != nil {
		return err
	}
	return bw.WriteByte('\n')
}

func (w *TextOutputWriter) FlushAll() (int, error) {
	errCount := 0
	var first error
	for id, bw := range w.writers {
		if err := bw.Flush(); err != nil {
			errCount++
			if first == nil {
				first = fmt.Errorf("flushing %s: %w", id, err)
			}
		}
	}
	return errCount, first
}

func (w *TextOutputWriter) Close() error {
	if _, err := w.FlushAll(); err != nil {
		return err
	}
	for _, f := range w.files {
		f.Close()
	}
	return nil
}

// Truncate cuts fileID at the first line whose leading timestamp is
// >= resumeTime (or does not parse), dropping that line and every line
// after it, matching the checkpoint/resume contract in spec.md §6.
// It is the text-file analog of react_output.c's truncate_output_files.
func (w *TextOutputWriter) Truncate(fileID string, resumeTime float64) error {
	if bw, ok := w.writers[fileID]; ok {
		bw.Flush()
	}
	path := w.dir + "/" + fileID
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var kept bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		field := line
		if i := strings.IndexByte(line, ' '); i >= 0 {
			field = line[:i]
		}
		t, err := strconv.ParseFloat(field, 64)
		if err != nil || t >= resumeTime {
			break
		}
		kept.WriteString(line)
		kept.WriteByte('\n')
	}
	if err := os.WriteFile(path, kept.Bytes(), 0644); err != nil {
		return err
	}
	if f, ok := w.files[fileID]; ok {
		f.Seek(0, io.SeekEnd)
	}
	return nil
}
