// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			in:   "Space-Station: Rescue!",
			want: []string{"space", "station", "rescue"},
		},
		{
			name: "drops stop words",
			in:   "the crew of the station",
			want: []string{"crew", "station"},
		},
		{
			name: "drops single character tokens",
			in:   "a b robot c",
			want: []string{"robot"},
		},
		{
			name: "keeps digits",
			in:   "blade runner 2049",
			want: []string{"blade", "runner", "2049"},
		},
		{
			name: "counts length in runes for multibyte letters",
			in:   "é café naïve",
			want: []string{"café", "naïve"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVectorizerNormalization(t *testing.T) {
	vz := newVectorizer(1000)
	vecs := vz.fit([]string{
		"heist crew plans elaborate heist",
		"detective hunts killer",
		"crew survives shipwreck",
	})
	for i, vec := range vecs {
		var sum float64
		for _, w := range vec {
			sum += w * w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("doc %d: squared norm = %f, want 1.0", i, sum)
		}
	}
}

func TestVectorizerCosine(t *testing.T) {
	vz := newVectorizer(1000)
	vecs := vz.fit([]string{
		"robot uprising destroys city",
		"robot uprising destroys city",
		"quiet countryside romance",
	})
	if sim := vecs[0].dot(vecs[1]); math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("identical documents: cosine = %f, want 1.0", sim)
	}
	if sim := vecs[0].dot(vecs[2]); sim != 0 {
		t.Errorf("disjoint documents: cosine = %f, want 0", sim)
	}
}

func TestVectorizerSmoothIDF(t *testing.T) {
	vz := newVectorizer(1000)
	vz.fit([]string{"shark attack", "shark escape"})
	// A term present in every document has idf ln((1+n)/(1+n))+1 = 1.
	idx, ok := vz.vocab["shark"]
	if !ok {
		t.Fatal("expected shark in vocabulary")
	}
	if math.Abs(vz.idf[idx]-1.0) > 1e-9 {
		t.Errorf("idf(shark) = %f, want 1.0", vz.idf[idx])
	}
	// A term in one of two documents: ln(3/2)+1.
	idx, ok = vz.vocab["attack"]
	if !ok {
		t.Fatal("expected attack in vocabulary")
	}
	want := math.Log(1.5) + 1
	if math.Abs(vz.idf[idx]-want) > 1e-9 {
		t.Errorf("idf(attack) = %f, want %f", vz.idf[idx], want)
	}
}

func TestVectorizerVocabularyCap(t *testing.T) {
	vz := newVectorizer(2)
	vecs := vz.fit([]string{
		"alpha alpha alpha beta beta gamma",
	})
	if len(vz.vocab) != 2 {
		t.Fatalf("vocabulary size = %d, want 2", len(vz.vocab))
	}
	if _, ok := vz.vocab["alpha"]; !ok {
		t.Error("expected most frequent term alpha to survive the cap")
	}
	if _, ok := vz.vocab["beta"]; !ok {
		t.Error("expected second most frequent term beta to survive the cap")
	}
	if _, ok := vz.vocab["gamma"]; ok {
		t.Error("expected gamma to be dropped by the cap")
	}
	if len(vecs[0]) != 2 {
		t.Errorf("document vector has %d terms, want 2", len(vecs[0]))
	}
}
