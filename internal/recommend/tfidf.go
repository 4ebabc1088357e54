// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// sparseVec is an L2-normalized TF-IDF vector keyed by vocabulary index.
type sparseVec map[int]float64

// dot computes the inner product of two sparse vectors. For unit-norm
// vectors this is their cosine similarity. Terms are summed in index
// order: map iteration order would reorder the floating-point additions
// and make repeated calls disagree in the last ulp.
func (v sparseVec) dot(other sparseVec) float64 {
	// Iterate the smaller map.
	if len(other) < len(v) {
		v, other = other, v
	}
	shared := make([]int, 0, len(v))
	for idx := range v {
		if _, ok := other[idx]; ok {
			shared = append(shared, idx)
		}
	}
	sort.Ints(shared)
	var sum float64
	for _, idx := range shared {
		sum += v[idx] * other[idx]
	}
	return sum
}

// vectorizer builds TF-IDF representations of a document corpus. Term
// counts use raw frequency, IDF is smoothed as ln((1+n)/(1+df))+1, and
// every output vector is L2-normalized so cosine similarity reduces to a
// dot product.
type vectorizer struct {
	vocab   map[string]int
	idf     []float64
	maxSize int
}

func newVectorizer(maxFeatures int) *vectorizer {
	return &vectorizer{maxSize: maxFeatures}
}

// fit learns the vocabulary and IDF weights from the corpus and returns
// the per-document vectors. The vocabulary keeps the maxSize most
// frequent terms across the corpus, ties broken alphabetically.
func (vz *vectorizer) fit(docs []string) []sparseVec {
	counts := make([]map[string]int, len(docs))
	totals := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range docs {
		tc := make(map[string]int)
		for _, tok := range tokenize(doc) {
			tc[tok]++
		}
		counts[i] = tc
		for tok, c := range tc {
			totals[tok] += c
			df[tok]++
		}
	}

	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(a, b int) bool {
		if totals[terms[a]] != totals[terms[b]] {
			return totals[terms[a]] > totals[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if vz.maxSize > 0 && len(terms) > vz.maxSize {
		terms = terms[:vz.maxSize]
	}
	sort.Strings(terms)

	vz.vocab = make(map[string]int, len(terms))
	vz.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, t := range terms {
		vz.vocab[t] = i
		vz.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vecs := make([]sparseVec, len(docs))
	for i, tc := range counts {
		vecs[i] = vz.weigh(tc)
	}
	return vecs
}

// weigh converts raw term counts into a normalized TF-IDF vector. The
// norm is accumulated in index order for the same reason dot sums in
// index order: the vectors must come out bit-identical on every call.
func (vz *vectorizer) weigh(tc map[string]int) sparseVec {
	vec := make(sparseVec)
	for tok, c := range tc {
		idx, ok := vz.vocab[tok]
		if !ok {
			continue
		}
		vec[idx] = float64(c) * vz.idf[idx]
	}

	idxs := make([]int, 0, len(vec))
	for idx := range vec {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	var norm float64
	for _, idx := range idxs {
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for _, idx := range idxs {
			vec[idx] /= norm
		}
	}
	return vec
}

// tokenize lowercases the text and extracts alphanumeric tokens of at
// least two characters, dropping English stop words.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var toks []string
	var b strings.Builder
	runes := 0
	flush := func() {
		// Length is counted in runes, not bytes, so a lone multibyte
		// letter does not pass the two-character minimum.
		if runes >= 2 {
			tok := b.String()
			if !stopWords[tok] {
				toks = append(toks, tok)
			}
		}
		b.Reset()
		runes = 0
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			runes++
		} else {
			flush()
		}
	}
	flush()
	return toks
}

// stopWords is the standard English stop word list used for text
// feature extraction.
var stopWords = func() map[string]bool {
	words := strings.Fields(`a about above across after afterwards again
against all almost alone along already also although always am among
amongst amoungst amount an and another any anyhow anyone anything anyway
anywhere are around as at back be became because become becomes becoming
been before beforehand behind being below beside besides between beyond
bill both bottom but by call can cannot cant co con could couldnt cry de
describe detail do done down due during each eg eight either eleven else
elsewhere empty enough etc even ever every everyone everything everywhere
except few fifteen fifty fill find fire first five for former formerly
forty found four from front full further get give go had has hasnt have
he hence her here hereafter hereby herein hereupon hers herself him
himself his how however hundred i ie if in inc indeed interest into is
it its itself keep last latter latterly least less ltd made many may me
meanwhile might mill mine more moreover most mostly move much must my
myself name namely neither never nevertheless next nine no nobody none
noone nor not nothing now nowhere of off often on once one only onto or
other others otherwise our ours ourselves out over own part per perhaps
please put rather re same see seem seemed seeming seems serious several
she should show side since sincere six sixty so some somehow someone
something sometime sometimes somewhere still such system take ten than
that the their them themselves then thence there thereafter thereby
therefore therein thereupon these they thick thin third this those
though three through throughout thru thus to together too top toward
towards twelve twenty two un under until up upon us very via was we well
were what whatever when whence whenever where whereafter whereas whereby
wherein whereupon wherever whether which while whither who whoever whole
whom whose why will with within without would yet you your yours
yourself yourselves`)
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()
