package skin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Faultbox/midgard-rig/pkg/anim"
	"github.com/Faultbox/midgard-rig/pkg/math"
	"github.com/Faultbox/midgard-rig/pkg/skeleton"
)

// fiveBoneChain builds root -> b1 -> ... -> b4, each offset one unit up.
func fiveBoneChain(t *testing.T) (*skeleton.Skeleton, []RawBone) {
	t.Helper()
	raw := make([]skeleton.RawNode, 5)
	bones := make([]RawBone, 5)
	for i := range raw {
		raw[i] = skeleton.RawNode{Name: fmt.Sprintf("b%d", i), Parent: i - 1, BindLocal: math.Translate(0, 1, 0)}
	}
	sk, err := skeleton.New(raw)
	if err != nil {
		t.Fatal(err)
	}
	for i := range bones {
		bones[i] = RawBone{Name: raw[i].Name, Offset: sk.BindGlobal(i).Inverse()}
	}
	return sk, bones
}

func TestPaletteCompleteness(t *testing.T) {
	sk, raw := fiveBoneChain(t)
	bones, err := BindBones(sk, raw)
	if err != nil {
		t.Fatal(err)
	}

	p := new(Palette)
	p.Update(sk, bones)

	if len(p) != 256 {
		t.Fatalf("palette has %d entries, want 256", len(p))
	}
	id := math.Identity()
	for i := 5; i < MaxBones; i++ {
		if p[i] != id {
			t.Fatalf("palette[%d] = %v, want identity", i, p[i])
		}
	}
	// At bind pose global * inverse(bind global) is identity.
	for i := 0; i < 5; i++ {
		if !p[i].ApproxEqual(id, 1e-5) {
			t.Errorf("palette[%d] at bind = %v, want identity", i, p[i])
		}
	}
}

func TestPaletteFollowsPose(t *testing.T) {
	sk, raw := fiveBoneChain(t)
	bones, err := BindBones(sk, raw)
	if err != nil {
		t.Fatal(err)
	}
	clip, err := anim.NewClip("lift", 1, 1, []anim.Channel{{
		Target:      "b0",
		Translation: []anim.VectorKey{{Time: 0, Value: math.Vec3{X: 2, Y: 1}}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	sk.Evaluate(clip, 0, false)
	p := NewPalette()
	p.Update(sk, bones)

	// Moving the root by +2 on X shifts every skinned vertex the same way.
	for i := 0; i < 5; i++ {
		got := p[i].TransformVec3(math.Vec3{Y: float32(i + 1)})
		want := math.Vec3{X: 2, Y: float32(i + 1)}
		if got.Distance(want) > 1e-4 {
			t.Errorf("palette[%d] maps bind vertex to %v, want %v", i, got, want)
		}
	}
}

func TestBindBonesMissingNode(t *testing.T) {
	sk, raw := fiveBoneChain(t)
	raw = append(raw, RawBone{Name: "tail", Offset: math.Identity()})

	bones, err := BindBones(sk, raw)
	if !errors.Is(err, ErrBoneNodeNotFound) {
		t.Errorf("BindBones error = %v, want ErrBoneNodeNotFound", err)
	}
	if bones != nil {
		t.Error("BindBones should not return bones on error")
	}
}

func TestBoneSetDeduplicates(t *testing.T) {
	sk, raw := fiveBoneChain(t)
	set := NewBoneSet(sk)

	a, err := set.Add(raw[3])
	if err != nil {
		t.Fatal(err)
	}
	b, err := set.Add(RawBone{Name: raw[3].Name, Offset: math.Scale(9, 9, 9)})
	if err != nil {
		t.Fatal(err)
	}
	if a != b || len(set.Bones()) != 1 {
		t.Errorf("duplicate bone added twice: %d, %d, %d bones", a, b, len(set.Bones()))
	}
	if set.Bones()[0].Offset != raw[3].Offset {
		t.Error("first offset should be kept")
	}
	if set.Bones()[0].Node != 3 {
		t.Errorf("bone node = %d, want 3", set.Bones()[0].Node)
	}
}

func TestBoneSetTooManyBones(t *testing.T) {
	raw := make([]skeleton.RawNode, MaxBones+2)
	for i := range raw {
		raw[i] = skeleton.RawNode{Name: fmt.Sprintf("n%d", i), Parent: i - 1, BindLocal: math.Identity()}
	}
	sk, err := skeleton.New(raw)
	if err != nil {
		t.Fatal(err)
	}

	set := NewBoneSet(sk)
	for i := 0; i < MaxBones; i++ {
		if _, err := set.Add(RawBone{Name: raw[i].Name}); err != nil {
			t.Fatalf("bone %d: %v", i, err)
		}
	}
	if _, err := set.Add(RawBone{Name: raw[MaxBones].Name}); !errors.Is(err, ErrTooManyBones) {
		t.Errorf("bone %d error = %v, want ErrTooManyBones", MaxBones, err)
	}
}

func TestBoneSetAddNode(t *testing.T) {
	sk, raw := fiveBoneChain(t)
	set := NewBoneSet(sk)

	named, err := set.Add(raw[2])
	if err != nil {
		t.Fatal(err)
	}
	rigid, err := set.AddNode(2)
	if err != nil {
		t.Fatal(err)
	}
	again, err := set.AddNode(2)
	if err != nil {
		t.Fatal(err)
	}
	if rigid == named || rigid != again {
		t.Errorf("slots: named=%d rigid=%d again=%d", named, rigid, again)
	}
	if set.Bones()[rigid].Offset != math.Identity() {
		t.Error("node binding should have identity offset")
	}

	p := NewPalette()
	p.Update(sk, set.Bones())
	if p[rigid] != sk.Global(2) {
		t.Errorf("node binding palette = %v, want node global %v", p[rigid], sk.Global(2))
	}

	if _, err := set.AddNode(42); !errors.Is(err, ErrBoneNodeNotFound) {
		t.Errorf("AddNode(42) error = %v", err)
	}
}
