/*
 * atom.go, part of govacf.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vacf

import (
	"fmt"
	"strconv"
)

// AtomTypeKind tells which of the three AtomType variants a dump frame uses.
// It is decided once per frame, from the ATOMS header.
type AtomTypeKind int

const (
	IntegerKind AtomTypeKind = iota //"type" column
	MassKind                        //"mass" column
	ElementKind                     //anything else, usually "element"
)

func (k AtomTypeKind) String() string {
	switch k {
	case IntegerKind:
		return "type"
	case MassKind:
		return "mass"
	case ElementKind:
		return "element"
	}
	return fmt.Sprintf("AtomTypeKind(%d)", int(k))
}

// KindFromLabel maps the column label found in the ATOMS header to
// the corresponding AtomTypeKind.
func KindFromLabel(label string) AtomTypeKind {
	switch label {
	case "type":
		return IntegerKind
	case "mass":
		return MassKind
	default:
		return ElementKind
	}
}

// AtomType is the per-atom type tag of a dump record. The only implementations
// are IntegerType, MassType and ElementType.
type AtomType interface {
	Kind() AtomTypeKind
	String() string
	atomType()
}

// IntegerType is a LAMMPS numeric atom type.
type IntegerType int32

// MassType is a per-atom mass.
type MassType float64

// ElementType is an element or species label.
type ElementType string

func (IntegerType) Kind() AtomTypeKind { return IntegerKind }
func (MassType) Kind() AtomTypeKind    { return MassKind }
func (ElementType) Kind() AtomTypeKind { return ElementKind }

func (t IntegerType) String() string { return strconv.FormatInt(int64(t), 10) }
func (t MassType) String() string    { return strconv.FormatFloat(float64(t), 'g', -1, 64) }
func (t ElementType) String() string { return string(t) }

func (IntegerType) atomType() {}
func (MassType) atomType()    {}
func (ElementType) atomType() {}

// ParseAtomType parses token as the variant given by kind. It never
// substitutes a default value: a token that does not parse is an error.
func ParseAtomType(kind AtomTypeKind, token string) (AtomType, error) {
	switch kind {
	case IntegerKind:
		i, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return nil, err
		}
		return IntegerType(i), nil
	case MassKind:
		m, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, err
		}
		return MassType(m), nil
	case ElementKind:
		return ElementType(token), nil
	}
	return nil, fmt.Errorf("unknown atom type kind %d", int(kind))
}

// Atom is the state of one particle at one timestep.
type Atom struct {
	ID         int
	Type       AtomType
	X, Y, Z    float64
	VX, VY, VZ float64
}

// Vel returns the velocity of the atom as an array.
func (A Atom) Vel() [3]float64 {
	return [3]float64{A.VX, A.VY, A.VZ}
}

// Frame is one timestep snapshot of the trajectory. Len(Atoms) must
// be equal to NAtoms.
type Frame struct {
	Timestep int
	NAtoms   int
	Atoms    []Atom
	Box      [3][2]float64 //lo, hi for x, y and z. Zero if the dump has no BOX BOUNDS.
}

// Len returns the number of atoms actually stored in the frame.
func (F *Frame) Len() int {
	return len(F.Atoms)
}

// Reset empties the frame so it can be reused by a reader,
// keeping the capacity of the atom slice.
func (F *Frame) Reset() {
	F.Timestep = 0
	F.NAtoms = 0
	F.Atoms = F.Atoms[:0]
	F.Box = [3][2]float64{}
}

// Copy returns a deep copy of the frame.
func (F *Frame) Copy() *Frame {
	if F == nil {
		panic("Attempted to copy a nil frame")
	}
	ret := &Frame{Timestep: F.Timestep, NAtoms: F.NAtoms, Box: F.Box}
	ret.Atoms = make([]Atom, len(F.Atoms))
	copy(ret.Atoms, F.Atoms)
	return ret
}
