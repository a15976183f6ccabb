// seehuhn.de/go/facemesh - face mesh overlay rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package overlay draws projected face mesh vertices as markers on a 2D
// surface.
//
// A [Renderer] owns one surface and replaces all of its markers on every
// frame. Surfaces are only touched from a single goroutine, the render
// thread; other goroutines hand frames to it through a [Thread], which
// drops frames that are superseded before they are drawn.
//
// [ImageSurface] renders into an RGBA image using package raster. Several
// image surfaces sharing one viewport are managed by [Layers], which can
// also composite them over a camera image.
package overlay
