/*
 * doc.go, part of govacf.
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

/*
Package vacf contains the data model shared by the govacf packages: atoms,
frames and their per-atom type tags, plus the errors and trajectory
interfaces.

	**govacf Capabilities**

    Reads LAMMPS text dump trajectories (plain, gzip or zstd compressed),
	frame by frame or all at once (package traj/lammps).

    Arranges the velocities of a trajectory in a particles x 3*timesteps
	gonum matrix (package velmat). The ensemble-mean velocity can be
	subtracted at each timestep.

    Calculates the velocity autocorrelation function, either directly with
	one concurrent reduction per lag or through FFT (package chemstat).
	Also integrates the curve to get the Green-Kubo diffusion coefficient.

    Plots the VACF with gonum/plot (package chemplot).

Particles are identified by their position in each frame, not by their
atom ID. The caller must make sure that the atom order does not change
between frames.*/
package vacf
