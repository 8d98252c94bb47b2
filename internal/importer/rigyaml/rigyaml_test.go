package rigyaml

import (
	"errors"
	stdmath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-rig/internal/engine/headless"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

func TestParseBoxMan(t *testing.T) {
	src, err := Parse(BoxMan())
	if err != nil {
		t.Fatal(err)
	}
	if src.Name != "boxman" {
		t.Errorf("name = %q", src.Name)
	}
	if len(src.Nodes) != 12 {
		t.Errorf("nodes = %d, want 12", len(src.Nodes))
	}
	if len(src.Materials) != 3 {
		t.Errorf("materials = %d, want 3", len(src.Materials))
	}
	if len(src.Meshes) != 12 {
		t.Fatalf("meshes = %d, want 12", len(src.Meshes))
	}
	for _, m := range src.Meshes {
		if len(m.Vertices) != 24 || len(m.Indices) != 36 {
			t.Errorf("%s: %d vertices, %d indices", m.Name, len(m.Vertices), len(m.Indices))
		}
	}
	if src.Skinned() {
		t.Error("boxman should be rigid")
	}

	if len(src.Clips) != 2 {
		t.Fatalf("clips = %d, want 2", len(src.Clips))
	}
	tests := []struct {
		name     string
		tps      float64
		duration float64
	}{
		{"walk", 24, 48},
		{"idle", 48, 96},
	}
	for i, tt := range tests {
		c := src.Clips[i]
		if c.Name != tt.name || c.TicksPerSecond != tt.tps || c.Duration != tt.duration {
			t.Errorf("clip %d = %s tps %v duration %v, want %+v", i, c.Name, c.TicksPerSecond, c.Duration, tt)
		}
	}
}

func TestBoxManAnimates(t *testing.T) {
	src, err := Parse(BoxMan())
	if err != nil {
		t.Fatal(err)
	}
	m, err := model.Load(model.LoadContext{Device: headless.NewDevice()}, src, false)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()

	sk := model.SkeletonOf(m)
	hips, ok := sk.Index("hips")
	if !ok {
		t.Fatal("no hips")
	}

	m.Evaluate(0, true)
	if y := sk.Global(hips).Translation().Y; !near(y, 1) {
		t.Errorf("hips y at 0s = %v, want 1", y)
	}
	m.Evaluate(0.5, true)
	if y := sk.Global(hips).Translation().Y; !near(y, 1.04) {
		t.Errorf("hips y at 0.5s = %v, want 1.04", y)
	}
	// 2.5s wraps to 0.5s of a 2s clip.
	m.Evaluate(2.5, true)
	if y := sk.Global(hips).Translation().Y; !near(y, 1.04) {
		t.Errorf("hips y at 2.5s = %v, want 1.04", y)
	}

	rec := &headless.Recorder{}
	for _, pass := range []model.Pass{model.PassOpaque, model.PassTransparent} {
		rec.BeginPass(pass)
		m.Draw(rec, math.Identity(), pass)
	}
	if got := rec.Count(model.PassOpaque); got != 11 {
		t.Errorf("opaque draws = %d, want 11", got)
	}
	if got := rec.Count(model.PassTransparent); got != 1 {
		t.Errorf("transparent draws = %d, want 1", got)
	}

	b := m.Bounds()
	if !b.Valid() || b.Max[1] < 1.8 || b.Min[1] > 0.2 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestSkinnedDocument(t *testing.T) {
	data := []byte(`
name: stick
skinned: true
nodes:
  - name: root
  - name: arm
    parent: root
    translate: [0, 1, 0]
    box: {size: [2, 2, 2]}
`)
	src, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Skinned() {
		t.Fatal("expected skinned source")
	}
	sm := src.Meshes[0]
	if sm.Material != -1 {
		t.Errorf("material = %d, want default", sm.Material)
	}
	b := model.MeshBounds(sm.Vertices)
	if !near(b.Min[1], 0) || !near(b.Max[1], 2) {
		t.Errorf("bind-space bounds = %+v, want y in [0,2]", b)
	}
	if len(sm.Bones) != 1 || sm.Bones[0].Name != "arm" || len(sm.Bones[0].Weights) != 24 {
		t.Fatalf("bones = %+v", sm.Bones)
	}

	m, err := model.LoadSkinned(model.LoadContext{Device: headless.NewDevice()}, src)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()
	if !m.Palette()[0].ApproxEqual(math.Identity(), 1e-5) {
		t.Errorf("bind palette = %v, want identity", m.Palette()[0])
	}
}

func TestSkinnedDocumentLoadsRigidInPlace(t *testing.T) {
	data := []byte(`
name: stick
skinned: true
nodes:
  - name: root
  - name: arm
    parent: root
    translate: [0, 5, 0]
    scale: [1, 3, 1]
    box: {size: [1, 1, 1]}
`)
	tests := []struct {
		name  string
		rigid bool
	}{
		{"skinned", false},
		{"rigid", true},
	}
	var bounds []model.Bounds
	for _, tt := range tests {
		src, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		m, err := model.Load(model.LoadContext{Device: headless.NewDevice()}, src, tt.rigid)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		bounds = append(bounds, m.Bounds())
		m.Release()
	}

	skinned, rigid := bounds[0], bounds[1]
	if !near(skinned.Min[1], 3.5) || !near(skinned.Max[1], 6.5) {
		t.Errorf("skinned bounds = %+v, want y in [3.5,6.5]", skinned)
	}
	for i := 0; i < 3; i++ {
		if !near(rigid.Min[i], skinned.Min[i]) || !near(rigid.Max[i], skinned.Max[i]) {
			t.Fatalf("rigid bounds %+v differ from skinned bounds %+v", rigid, skinned)
		}
	}
}

func TestSkinnedBoxNormalsUnderShear(t *testing.T) {
	// A rotated child under a non-uniformly scaled parent shears its box.
	data := []byte(`
name: slab
skinned: true
nodes:
  - name: root
    scale: [1, 4, 1]
  - name: plate
    parent: root
    rotate: [0, 0, 45]
    box: {size: [1, 1, 1]}
`)
	src, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	vs := src.Meshes[0].Vertices
	pos := func(i int) math.Vec3 {
		p := vs[i].Position
		return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	// Four vertices per face; two edges span each face plane.
	for face := 0; face < len(vs); face += 4 {
		n := vs[face].Normal
		normal := math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		if !near(normal.Length(), 1) {
			t.Fatalf("face %d normal %v is not unit length", face/4, n)
		}
		for _, edge := range []math.Vec3{pos(face + 1).Sub(pos(face)), pos(face + 3).Sub(pos(face))} {
			if d := normal.Dot(edge.Normalize()); !near(d, 0) {
				t.Errorf("face %d normal %v not perpendicular to edge %v (dot %v)", face/4, n, edge, d)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "unknown parent",
			data: "nodes:\n  - name: a\n    parent: ghost\n",
			want: ErrUnknownParent,
		},
		{
			name: "unknown material",
			data: "nodes:\n  - name: a\n    box: {size: [1, 1, 1], material: gold}\n",
			want: ErrUnknownMaterial,
		},
		{
			name: "unknown channel node",
			data: "nodes:\n  - name: a\nclips:\n  - name: c\n    duration: 1\n    channels:\n      - node: b\n",
			want: ErrUnknownNode,
		},
		{
			name: "unknown field",
			data: "nodes:\n  - name: a\n    colour: red\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := os.WriteFile(path, BoxMan(), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(src.Nodes) != 12 {
		t.Errorf("nodes = %d", len(src.Nodes))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBoxWindingFacesOutward(t *testing.T) {
	center := math.Vec3{X: 1, Y: 2, Z: 3}
	vertices, indices := Box(center, math.Vec3{X: 2, Y: 4, Z: 6})

	b := model.MeshBounds(vertices)
	if b.Min != [3]float32{0, 0, 0} || b.Max != [3]float32{2, 4, 6} {
		t.Errorf("bounds = %+v", b)
	}

	for i := 0; i < len(indices); i += 3 {
		a := vec(vertices[indices[i]].Position)
		bb := vec(vertices[indices[i+1]].Position)
		c := vec(vertices[indices[i+2]].Position)
		face := bb.Sub(a).Cross(c.Sub(a))
		n := vec(vertices[indices[i]].Normal)
		if face.Dot(n) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", i/3, n)
		}
		if a.Sub(center).Dot(n) <= 0 {
			t.Errorf("triangle %d normal %v points inward", i/3, n)
		}
	}
}
