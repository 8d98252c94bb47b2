package skin

import (
	"testing"
)

func sum(w [MaxInfluences]float32) float32 {
	var s float32
	for _, v := range w {
		s += v
	}
	return s
}

func TestResolveVertexNormalization(t *testing.T) {
	got := ResolveVertex([]Influence{{Bone: 2, Weight: 1}, {Bone: 7, Weight: 3}})

	if got.Indices[0] != 7 || got.Indices[1] != 2 {
		t.Errorf("Indices = %v, want heaviest first [7 2 ...]", got.Indices)
	}
	if got.Weights[0] != 0.75 || got.Weights[1] != 0.25 {
		t.Errorf("Weights = %v, want [0.75 0.25 0 0]", got.Weights)
	}
	if got.Weights[2] != 0 || got.Weights[3] != 0 {
		t.Errorf("unused slots should be 0, got %v", got.Weights)
	}
	if s := sum(got.Weights); s < 0.9999 || s > 1.0001 {
		t.Errorf("weights sum = %v, want 1", s)
	}
}

func TestResolveVertexZeroInfluences(t *testing.T) {
	tests := []struct {
		name string
		in   []Influence
	}{
		{"none", nil},
		{"all zero", []Influence{{Bone: 3, Weight: 0}, {Bone: 4, Weight: 0}}},
		{"negative", []Influence{{Bone: 3, Weight: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVertex(tt.in)
			want := VertexWeights{Weights: [MaxInfluences]float32{1, 0, 0, 0}}
			if got != want {
				t.Errorf("ResolveVertex = %+v, want %+v", got, want)
			}
		})
	}
}

func TestResolveVertexTruncates(t *testing.T) {
	in := []Influence{
		{Bone: 1, Weight: 0.1},
		{Bone: 2, Weight: 0.5},
		{Bone: 3, Weight: 0.2},
		{Bone: 4, Weight: 0.4},
		{Bone: 5, Weight: 0.3},
		{Bone: 6, Weight: 0.05},
	}
	got := ResolveVertex(in)

	want := [MaxInfluences]uint8{2, 4, 5, 3}
	if got.Indices != want {
		t.Errorf("Indices = %v, want %v", got.Indices, want)
	}
	if s := sum(got.Weights); s < 0.9999 || s > 1.0001 {
		t.Errorf("weights sum = %v, want 1", s)
	}
	if got.Weights[0] <= got.Weights[1] {
		t.Errorf("weights not descending: %v", got.Weights)
	}
}

func TestResolveVertexTiesKeepInputOrder(t *testing.T) {
	in := []Influence{
		{Bone: 9, Weight: 1},
		{Bone: 4, Weight: 1},
		{Bone: 6, Weight: 1},
		{Bone: 1, Weight: 1},
		{Bone: 2, Weight: 1},
	}
	got := ResolveVertex(in)
	want := [MaxInfluences]uint8{9, 4, 6, 1}
	if got.Indices != want {
		t.Errorf("Indices = %v, want %v", got.Indices, want)
	}
	for i, w := range got.Weights {
		if w != 0.25 {
			t.Errorf("Weights[%d] = %v, want 0.25", i, w)
		}
	}
}

func TestCollect(t *testing.T) {
	bones := []BoneWeights{
		{Bone: 10, Weights: []VertexWeight{{Vertex: 0, Weight: 1}, {Vertex: 2, Weight: 0.5}}},
		{Bone: 11, Weights: []VertexWeight{{Vertex: 2, Weight: 0.5}, {Vertex: 9, Weight: 1}, {Vertex: 1, Weight: 0}, {Vertex: -1, Weight: 1}}},
	}
	got := Collect(3, bones)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if len(got[0]) != 1 || got[0][0].Bone != 10 {
		t.Errorf("vertex 0 = %v, want bone 10", got[0])
	}
	if len(got[1]) != 0 {
		t.Errorf("vertex 1 = %v, want no influences", got[1])
	}
	if len(got[2]) != 2 || got[2][1].Bone != 11 {
		t.Errorf("vertex 2 = %v, want bones 10 and 11", got[2])
	}

	resolved := Resolve(got)
	if resolved[1] != Rigid {
		t.Errorf("vertex 1 resolved = %+v, want rigid default", resolved[1])
	}
	if resolved[2].Weights[0] != 0.5 || resolved[2].Weights[1] != 0.5 {
		t.Errorf("vertex 2 weights = %v", resolved[2].Weights)
	}
}
