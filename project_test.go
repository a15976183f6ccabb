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

package facemesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"seehuhn.de/go/geom/vec"
)

// dropZ is the identity on the XY plane.
var dropZ = ProjectionFunc(func(w mgl64.Vec3) vec.Vec2 {
	return vec.Vec2{X: w[0], Y: w[1]}
})

func TestProjectIdentity(t *testing.T) {
	got := Project(Vertex{1, 2, 5}, mgl64.Ident4(), dropZ)
	if got != (vec.Vec2{X: 1, Y: 2}) {
		t.Errorf("got %v, want (1, 2)", got)
	}
}

func TestProjectTransform(t *testing.T) {
	// translate, then rotate a quarter turn about z
	m := mgl64.Translate3D(10, 20, 30).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))

	got := Project(Vertex{1, 0, 0}, m, dropZ)
	want := vec.Vec2{X: 10, Y: 21}
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

// TestProjectPerVertex checks that the projector is consulted once per
// vertex, so that changes of camera state between calls are observed.
func TestProjectPerVertex(t *testing.T) {
	calls := 0
	p := ProjectionFunc(func(w mgl64.Vec3) vec.Vec2 {
		calls++
		return vec.Vec2{X: float64(calls)}
	})

	verts := []Vertex{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	pairs := ProjectMesh(nil, verts, mgl64.Ident4(), p)
	if calls != 3 {
		t.Fatalf("projector called %d times, want 3", calls)
	}
	for i, vp := range pairs {
		if vp.Projected.X != float64(i+1) {
			t.Errorf("pair %d: got %v", i, vp.Projected)
		}
	}
}

func TestProjectMeshOrderAndReuse(t *testing.T) {
	verts := []Vertex{{1, 1, 0}, {2, 3, 0}, {-4, 5, 1}}
	buf := make([]VertexProjection, 0, 8)

	pairs := ProjectMesh(buf, verts, mgl64.Ident4(), dropZ)
	if len(pairs) != len(verts) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(verts))
	}
	if &pairs[0] != &buf[:1][0] {
		t.Error("buffer was not reused")
	}
	for i, vp := range pairs {
		if vp.Vertex != verts[i] {
			t.Errorf("pair %d: vertex %v, want %v", i, vp.Vertex, verts[i])
		}
		if vp.Projected != (vec.Vec2{X: verts[i][0], Y: verts[i][1]}) {
			t.Errorf("pair %d: projected %v", i, vp.Projected)
		}
	}

	pts := AppendPoints(nil, pairs)
	if len(pts) != 3 || pts[2] != (vec.Vec2{X: -4, Y: 5}) {
		t.Errorf("unexpected points %v", pts)
	}
}

func TestProjectNonFiniteTransform(t *testing.T) {
	m := mgl64.Ident4()
	m[12] = math.NaN()
	if FiniteMat4(m) {
		t.Error("FiniteMat4 accepted a NaN entry")
	}

	got := Project(Vertex{1, 2, 3}, m, dropZ)
	if IsFinite(got) {
		t.Errorf("expected a non-finite result, got %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	cases := []struct {
		p    vec.Vec2
		want bool
	}{
		{vec.Vec2{X: 1, Y: 2}, true},
		{vec.Vec2{X: math.NaN(), Y: 2}, false},
		{vec.Vec2{X: 1, Y: math.Inf(-1)}, false},
	}
	for _, c := range cases {
		if got := IsFinite(c.p); got != c.want {
			t.Errorf("IsFinite(%v) = %t, want %t", c.p, got, c.want)
		}
	}
}

func TestPosition(t *testing.T) {
	m := mgl64.Translate3D(1, -2, 3)
	if got := Position(m); got != (mgl64.Vec3{1, -2, 3}) {
		t.Errorf("got %v", got)
	}
}

func BenchmarkProjectMesh(b *testing.B) {
	verts := make([]Vertex, 1220)
	for i := range verts {
		a := float64(i) / float64(len(verts)) * 2 * math.Pi
		verts[i] = Vertex{0.07 * math.Cos(a), 0.09 * math.Sin(a), 0.02}
	}
	cam := NewCamera(750, 1334, mgl64.DegToRad(60), 0.01, 10)
	pose := mgl64.Translate3D(0, 0, -0.5)

	var buf []VertexProjection
	for b.Loop() {
		buf = ProjectMesh(buf, verts, pose, cam)
	}
}
