/*
 * dump.go, part of govacf
 *
 * Copyright 2024 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

// Package lammps reads LAMMPS text dump trajectories that contain
// the columns id type x y z vx vy vz.
package lammps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	vacf "github.com/rmera/govacf"
)

const (
	itemPrefix    = "ITEM:"
	timestepItem  = "ITEM: TIMESTEP"
	natomsItem    = "ITEM: NUMBER OF ATOMS"
	boxItem       = "ITEM: BOX BOUNDS"
	atomsItem     = "ITEM: ATOMS"
	atomFields    = 8
	typeLabelPos  = 3 //ITEM: ATOMS id <label> ...
	defaultBuffer = 64 * 1024
	maxPrealloc   = 1 << 16 //atoms reserved before any data line is read
)

var logger = log.New(io.Discard, "lammps: ", 0)

// SetLogger sets the logger used for non-fatal notices, such as
// skipped ITEM sections. Notices are discarded by default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// DumpObj is a container for a LAMMPS dump trajectory being read.
type DumpObj struct {
	filename string
	r        *bufio.Reader
	closer   io.Closer
	line     int  //last line read, 1-based
	readable bool //Is it ready to be read?
	frames   int  //frames read so far
	pending  string
	havePend bool
}

// New opens a dump file for reading. Files ending in .gz or .zst/.zstd
// are decompressed on the fly.
func New(filename string) (*DumpObj, error) {
	rc, err := openDecompressed(filename)
	if err != nil {
		e := vacf.NewError(vacf.IoFailure, "unable to open file", filename, "New")
		e.Err = err
		return nil, e
	}
	D := NewReader(rc, filename)
	D.closer = rc
	return D, nil
}

// NewReader returns a DumpObj reading from r. name is only used in error
// messages. Closing the returned object does not close r.
func NewReader(r io.Reader, name string) *DumpObj {
	D := new(DumpObj)
	D.filename = name
	D.r = bufio.NewReaderSize(r, defaultBuffer)
	D.readable = true
	return D
}

// Readable returns true if the object is ready to be read from
// false otherwise. It doesnt guarantee that there is something
// to read.
func (D *DumpObj) Readable() bool {
	return D.readable
}

// Frames returns the number of frames read so far.
func (D *DumpObj) Frames() int {
	return D.frames
}

// Close closes the underlying file, if the object opened it.
// The object can't be read after this call.
func (D *DumpObj) Close() error {
	D.readable = false
	if D.closer == nil {
		return nil
	}
	err := D.closer.Close()
	D.closer = nil
	return err
}

// Next reads the next frame into F, which is reset first. At the normal
// end of the trajectory it returns a vacf.LastFrameError. Any other error
// leaves the object unreadable.
func (D *DumpObj) Next(F *vacf.Frame) error {
	if !D.readable {
		return vacf.NewError(vacf.IoFailure, "trajectory not ready to be read", D.filename, "Next")
	}
	F.Reset()
	err := D.next(F)
	if err != nil {
		D.readable = false
		return vacf.ErrDecorate(err, "Next")
	}
	D.frames++
	return nil
}

func (D *DumpObj) next(F *vacf.Frame) error {
	var haveTimestep, haveCount bool
	for {
		l, err := D.readLine()
		if errors.Is(err, io.EOF) {
			if !haveTimestep && !haveCount {
				return vacf.NewLastFrameError(D.filename, "next")
			}
			return D.errorf(vacf.UnexpectedEOF, "", "trajectory ends before the ATOMS section of timestep %d", F.Timestep)
		}
		if err != nil {
			return err
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		switch {
		case !strings.HasPrefix(l, itemPrefix):
			return D.errorf(vacf.MalformedAtomRecord, l, "data line outside an ATOMS section, the declared number of atoms may be wrong")
		case strings.HasPrefix(l, timestepItem):
			if haveTimestep {
				return D.errorf(vacf.MalformedHeader, l, "new TIMESTEP before the ATOMS section of timestep %d", F.Timestep)
			}
			F.Timestep, err = D.intValue("timestep")
			if err != nil {
				return err
			}
			haveTimestep = true
		case strings.HasPrefix(l, natomsItem):
			if !haveTimestep {
				return D.errorf(vacf.MalformedHeader, l, "NUMBER OF ATOMS before TIMESTEP")
			}
			F.NAtoms, err = D.intValue("number of atoms")
			if err != nil {
				return err
			}
			if F.NAtoms < 0 {
				return D.errorf(vacf.MalformedHeader, "", "negative number of atoms: %d", F.NAtoms)
			}
			haveCount = true
		case strings.HasPrefix(l, boxItem):
			if err = D.box(F); err != nil {
				return err
			}
		case strings.HasPrefix(l, atomsItem):
			if !haveTimestep || !haveCount {
				return D.errorf(vacf.MalformedHeader, l, "ATOMS section without TIMESTEP or NUMBER OF ATOMS")
			}
			return D.atoms(F, l)
		default:
			if err = D.skipSection(l); err != nil {
				return err
			}
		}
	}
}

// atoms reads the ATOMS section whose header is h.
func (D *DumpObj) atoms(F *vacf.Frame, h string) error {
	fields := strings.Fields(h)
	if len(fields) <= typeLabelPos {
		return D.errorf(vacf.MalformedHeader, h, "no type column in the ATOMS header")
	}
	kind := vacf.KindFromLabel(fields[typeLabelPos])
	//the declared count is not trusted for the allocation, the file may be shorter.
	if prealloc := min(F.NAtoms, maxPrealloc); cap(F.Atoms) < prealloc {
		F.Atoms = make([]vacf.Atom, 0, prealloc)
	}
	for i := 0; i < F.NAtoms; i++ {
		l, err := D.readLine()
		if errors.Is(err, io.EOF) {
			return D.errorf(vacf.UnexpectedEOF, "", "timestep %d declares %d atoms, only %d found", F.Timestep, F.NAtoms, i)
		}
		if err != nil {
			return err
		}
		at, err := D.parseAtom(l, kind)
		if err != nil {
			return err
		}
		F.Atoms = append(F.Atoms, at)
	}
	return nil
}

var fieldNames = [atomFields]string{"id", "type", "x", "y", "z", "vx", "vy", "vz"}

func (D *DumpObj) parseAtom(l string, kind vacf.AtomTypeKind) (vacf.Atom, error) {
	var at vacf.Atom
	fields := strings.Fields(l)
	if len(fields) != atomFields {
		return at, D.errorf(vacf.MalformedAtomRecord, l, "%d fields in atom line, %d expected", len(fields), atomFields)
	}
	var err error
	at.ID, err = strconv.Atoi(fields[0])
	if err != nil {
		return at, D.fieldError(l, 0, err)
	}
	at.Type, err = vacf.ParseAtomType(kind, fields[1])
	if err != nil {
		return at, D.fieldError(l, 1, err)
	}
	dst := [6]*float64{&at.X, &at.Y, &at.Z, &at.VX, &at.VY, &at.VZ}
	for k, p := range dst {
		*p, err = strconv.ParseFloat(fields[k+2], 64)
		if err != nil {
			return at, D.fieldError(l, k+2, err)
		}
	}
	return at, nil
}

// box reads the 3 lines after a BOX BOUNDS header. Tilt factors, if
// present, are ignored.
func (D *DumpObj) box(F *vacf.Frame) error {
	for k := 0; k < 3; k++ {
		l, err := D.readLine()
		if errors.Is(err, io.EOF) {
			return D.errorf(vacf.UnexpectedEOF, "", "trajectory ends inside BOX BOUNDS")
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(l)
		if len(fields) < 2 {
			return D.errorf(vacf.MalformedHeader, l, "box bounds line needs at least 2 values")
		}
		for j := 0; j < 2; j++ {
			F.Box[k][j], err = strconv.ParseFloat(fields[j], 64)
			if err != nil {
				e := D.errorf(vacf.MalformedHeader, l, "unable to read box bounds")
				e.Err = err
				return e
			}
		}
	}
	return nil
}

// skipSection discards an ITEM section not needed here, up to the next
// ITEM line, which is kept for the next read.
func (D *DumpObj) skipSection(h string) error {
	logger.Printf("%s: skipping section %q at line %d", D.filename, h, D.line)
	for {
		l, err := D.readLine()
		if errors.Is(err, io.EOF) {
			return nil //next readLine will get the EOF again
		}
		if err != nil {
			return err
		}
		if strings.HasPrefix(strings.TrimSpace(l), itemPrefix) {
			D.unreadLine(l)
			return nil
		}
	}
}

// intValue reads the line after a header, which must contain only an integer.
func (D *DumpObj) intValue(what string) (int, error) {
	l, err := D.readLine()
	if errors.Is(err, io.EOF) {
		return 0, D.errorf(vacf.UnexpectedEOF, "", "trajectory ends before the %s value", what)
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		e := D.errorf(vacf.MalformedHeader, l, "invalid %s value", what)
		e.Err = err
		return 0, e
	}
	return v, nil
}

// readLine returns the next line without its line terminator. It returns
// io.EOF when there is nothing else to read, and a *vacf.Error for other
// read errors.
func (D *DumpObj) readLine() (string, error) {
	if D.havePend {
		D.havePend = false
		D.line++
		return D.pending, nil
	}
	l, err := D.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		e := D.errorf(vacf.IoFailure, "", "unable to read line %d", D.line+1)
		e.Err = err
		return "", e
	}
	if err != nil && l == "" {
		return "", io.EOF
	}
	D.line++
	return strings.TrimRight(l, "\r\n"), nil
}

func (D *DumpObj) unreadLine(l string) {
	D.pending = l
	D.havePend = true
	D.line--
}

func (D *DumpObj) errorf(kind vacf.ErrorKind, context, format string, args ...interface{}) *vacf.Error {
	e := vacf.NewError(kind, fmt.Sprintf(format, args...), D.filename, "")
	e.Line = D.line
	e.Context = context
	return e
}

func (D *DumpObj) fieldError(l string, field int, err error) *vacf.Error {
	e := D.errorf(vacf.MalformedAtomRecord, l, "invalid %s field", fieldNames[field])
	e.Err = err
	return e
}

// ReadAll reads all the remaining frames of the trajectory. If an error
// occurs, the frames read so far are discarded.
func (D *DumpObj) ReadAll() ([]*vacf.Frame, error) {
	var frames []*vacf.Frame
	for {
		F := new(vacf.Frame)
		err := D.Next(F)
		if err != nil {
			if _, ok := err.(vacf.LastFrameError); ok {
				break
			}
			return nil, vacf.ErrDecorate(err, "ReadAll")
		}
		frames = append(frames, F)
	}
	return frames, nil
}

// ReadFile reads all the frames in the dump file filename.
func ReadFile(filename string) ([]*vacf.Frame, error) {
	D, err := New(filename)
	if err != nil {
		return nil, vacf.ErrDecorate(err, "ReadFile")
	}
	defer D.Close()
	frames, err := D.ReadAll()
	if err != nil {
		return nil, vacf.ErrDecorate(err, "ReadFile")
	}
	return frames, nil
}
