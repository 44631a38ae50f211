/*
 * dump_test.go, part of govacf
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

package lammps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	vacf "github.com/rmera/govacf"
)

var rootdirtest string = "../../test"

const twoAtoms = `ITEM: TIMESTEP
10
ITEM: NUMBER OF ATOMS
2
ITEM: ATOMS id element x y z vx vy vz
1 O 0.5 0.5 0.5 1.0 -2.0 3.5
2 H 1.5 1.5 1.5 -1.0 2.0 -3.5
`

func TestReadDumpFile(Te *testing.T) {
	frames, err := ReadFile(filepath.Join(rootdirtest, "dummy.1.dump"))
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 {
		Te.Fatalf("got %d frames, expected 2", len(frames))
	}
	f1 := frames[0]
	if f1.Timestep != 0 || f1.NAtoms != 3 || len(f1.Atoms) != 3 {
		Te.Errorf("bad first frame header: %d %d %d", f1.Timestep, f1.NAtoms, len(f1.Atoms))
	}
	want1 := []vacf.Atom{
		{ID: 1, Type: vacf.IntegerType(1)},
		{ID: 2, Type: vacf.IntegerType(2), X: 1, Y: 1, Z: 1},
		{ID: 3, Type: vacf.IntegerType(1), X: 2, Y: 2, Z: 2},
	}
	for i, w := range want1 {
		if f1.Atoms[i] != w {
			Te.Errorf("frame 0 atom %d: got %+v, expected %+v", i, f1.Atoms[i], w)
		}
	}
	if f1.Box != [3][2]float64{{0, 10}, {0, 10}, {0, 10}} {
		Te.Errorf("bad box %v", f1.Box)
	}
	f2 := frames[1]
	if f2.Timestep != 1 || f2.NAtoms != 2 || len(f2.Atoms) != 2 {
		Te.Errorf("bad second frame header: %d %d %d", f2.Timestep, f2.NAtoms, len(f2.Atoms))
	}
	want2 := []vacf.Atom{
		{ID: 1, Type: vacf.MassType(16.0)},
		{ID: 2, Type: vacf.MassType(32.0), X: 1, Y: 1, Z: 1},
	}
	for i, w := range want2 {
		if f2.Atoms[i] != w {
			Te.Errorf("frame 1 atom %d: got %+v, expected %+v", i, f2.Atoms[i], w)
		}
	}
}

func TestElementColumn(Te *testing.T) {
	D := NewReader(strings.NewReader(twoAtoms), "element")
	F := new(vacf.Frame)
	if err := D.Next(F); err != nil {
		Te.Fatal(err)
	}
	if F.Timestep != 10 {
		Te.Errorf("timestep %d, expected 10", F.Timestep)
	}
	if F.Atoms[0].Type != vacf.ElementType("O") || F.Atoms[1].Type != vacf.ElementType("H") {
		Te.Errorf("bad element types %v %v", F.Atoms[0].Type, F.Atoms[1].Type)
	}
	if F.Atoms[1].Vel() != [3]float64{-1, 2, -3.5} {
		Te.Errorf("bad velocity %v", F.Atoms[1].Vel())
	}
	err := D.Next(F)
	if _, ok := err.(vacf.LastFrameError); !ok {
		Te.Errorf("expected LastFrameError, got %v", err)
	}
	if D.Readable() {
		Te.Error("trajectory still readable after the last frame")
	}
	if D.Frames() != 1 {
		Te.Errorf("%d frames read, expected 1", D.Frames())
	}
}

func TestSkipUnknownSections(Te *testing.T) {
	in := "ITEM: UNITS\nreal\nITEM: TIMESTEP\n5\nITEM: TIME\n0.5\n\nITEM: NUMBER OF ATOMS\n1\n" +
		"ITEM: BOX BOUNDS xy xz yz pp pp pp\n-1 1 0\n-2 2 0\n-3 3 0\n" +
		"ITEM: ATOMS id type x y z vx vy vz\n1 1 0 0 0 1 1 1"
	frames, err := NewReader(strings.NewReader(in), "skip").ReadAll()
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 1 || frames[0].Timestep != 5 || frames[0].Atoms[0].VZ != 1 {
		Te.Fatalf("unexpected frames %+v", frames)
	}
	if frames[0].Box != [3][2]float64{{-1, 1}, {-2, 2}, {-3, 3}} {
		Te.Errorf("bad triclinic box %v", frames[0].Box)
	}
}

func TestEmptyStream(Te *testing.T) {
	frames, err := NewReader(strings.NewReader("\n\n"), "empty").ReadAll()
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 0 {
		Te.Errorf("%d frames from an empty stream", len(frames))
	}
}

func TestDumpErrors(Te *testing.T) {
	header := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n2\nITEM: ATOMS id type x y z vx vy vz\n"
	cases := []struct {
		name string
		in   string
		kind *vacf.Error
	}{
		{"bad timestep", "ITEM: TIMESTEP\nzero\n", vacf.ErrMalformedHeader},
		{"float timestep", "ITEM: TIMESTEP\n1.5\n", vacf.ErrMalformedHeader},
		{"bad count", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\ntwo\n", vacf.ErrMalformedHeader},
		{"negative count", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n-2\n", vacf.ErrMalformedHeader},
		{"count before timestep", "ITEM: NUMBER OF ATOMS\n2\n", vacf.ErrMalformedHeader},
		{"atoms before count", "ITEM: TIMESTEP\n0\nITEM: ATOMS id type x y z vx vy vz\n", vacf.ErrMalformedHeader},
		{"no type column", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n0\nITEM: ATOMS id\n", vacf.ErrMalformedHeader},
		{"bad box", "ITEM: TIMESTEP\n0\nITEM: BOX BOUNDS pp pp pp\n0 a\n0 1\n0 1\n", vacf.ErrMalformedHeader},
		{"seven fields", header + "1 1 0 0 0 0 0\n2 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"nine fields", header + "1 1 0 0 0 0 0 0 0\n2 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"bad id", header + "a 1 0 0 0 0 0 0\n2 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"bad type", header + "1 1.5 0 0 0 0 0 0\n2 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"bad velocity", header + "1 1 0 0 0 0 x 0\n2 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"bad mass", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n1\nITEM: ATOMS id mass x y z vx vy vz\n1 heavy 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"too many lines", header + "1 1 0 0 0 0 0 0\n2 1 0 0 0 0 0 0\n3 1 0 0 0 0 0 0\n", vacf.ErrMalformedAtomRecord},
		{"too few lines", header + "1 1 0 0 0 0 0 0\nITEM: TIMESTEP\n1\n", vacf.ErrMalformedAtomRecord},
		{"eof in block", header + "1 1 0 0 0 0 0 0\n", vacf.ErrUnexpectedEOF},
		{"eof after marker", "ITEM: TIMESTEP\n", vacf.ErrUnexpectedEOF},
		{"huge count", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n9223372036854775807\nITEM: ATOMS id type x y z vx vy vz\n1 1 0 0 0 0 0 0\n", vacf.ErrUnexpectedEOF},
		{"eof before atoms", "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n2\n", vacf.ErrUnexpectedEOF},
	}
	for _, c := range cases {
		frames, err := NewReader(strings.NewReader(c.in), c.name).ReadAll()
		if err == nil {
			Te.Errorf("%s: expected an error", c.name)
			continue
		}
		if frames != nil {
			Te.Errorf("%s: partial frames returned with the error", c.name)
		}
		if !errors.Is(err, c.kind) {
			Te.Errorf("%s: got %v, expected kind %v", c.name, err, c.kind.Kind)
		}
	}
}

func TestErrorContext(Te *testing.T) {
	in := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n1\nITEM: ATOMS id type x y z vx vy vz\n1 1 0 0 0 0 zz 0\n"
	_, err := NewReader(strings.NewReader(in), "ctx.dump").ReadAll()
	var e *vacf.Error
	if !errors.As(err, &e) {
		Te.Fatalf("expected *vacf.Error, got %T", err)
	}
	if e.Line != 6 || e.FileName() != "ctx.dump" || !e.Critical() {
		Te.Errorf("bad error data: line %d file %s", e.Line, e.FileName())
	}
	if !strings.Contains(e.Error(), "vy") || !strings.Contains(e.Error(), "zz") {
		Te.Errorf("message lacks context: %s", e.Error())
	}
	if deco := e.Decorate(""); len(deco) < 2 || deco[len(deco)-1] != "ReadAll" {
		Te.Errorf("bad decoration %v", deco)
	}
}

func TestMissingFile(Te *testing.T) {
	_, err := ReadFile(filepath.Join(Te.TempDir(), "nothere.dump"))
	if !errors.Is(err, vacf.ErrIoFailure) {
		Te.Fatalf("expected IoFailure, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("cause not wrapped: %v", err)
	}
}

func TestCompressedDumps(Te *testing.T) {
	dir := Te.TempDir()
	gzname := filepath.Join(dir, "two.dump.gz")
	f, err := os.Create(gzname)
	if err != nil {
		Te.Fatal(err)
	}
	gw := gzip.NewWriter(f)
	gw.Write([]byte(twoAtoms + twoAtoms))
	gw.Close()
	f.Close()

	zname := filepath.Join(dir, "two.dump.zst")
	f, err = os.Create(zname)
	if err != nil {
		Te.Fatal(err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		Te.Fatal(err)
	}
	zw.Write([]byte(twoAtoms + twoAtoms))
	zw.Close()
	f.Close()

	for _, name := range []string{gzname, zname} {
		frames, err := ReadFile(name)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if len(frames) != 2 || frames[1].Atoms[0].VZ != 3.5 {
			Te.Errorf("%s: unexpected frames", name)
		}
	}
}

func TestNextReusesFrame(Te *testing.T) {
	D := NewReader(strings.NewReader(twoAtoms+twoAtoms), "reuse")
	F := new(vacf.Frame)
	n := 0
	for err := D.Next(F); ; err = D.Next(F) {
		if err != nil {
			if _, ok := err.(vacf.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		if F.Len() != 2 {
			Te.Errorf("frame %d has %d atoms", n, F.Len())
		}
		n++
	}
	if n != 2 {
		Te.Errorf("read %d frames, expected 2", n)
	}
}
