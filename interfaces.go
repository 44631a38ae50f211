/*
 * interfaces.go, part of govacf.
 *
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
 *
 */

package vacf

// Traj is an interface for any trajectory object that yields
// full frames, velocities included.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output. At the normal end of the
	//trajectory it returns a LastFrameError.
	Next(output *Frame) error
}

//Errors

// Decorator is implemented by all the errors in this library. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Decorator interface {
	Error() string
	Decorate(string) []string //Each call returns the decoration slice after the call. An empty string only returns the current value.
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Decorator
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
