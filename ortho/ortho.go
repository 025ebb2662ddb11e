// Package ortho turns words into fixed-length sequences of orthographic
// feature vectors: one one-hot letter vector per position, right-padded
// with zero vectors.
package ortho

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Boundary marks word edges in word lists ("#word#").
const Boundary = '#'

// DefaultAlphabet covers the boundary marker and lowercase ASCII letters.
const DefaultAlphabet = "#abcdefghijklmnopqrstuvwxyz"

var (
	ErrTooLong      = errors.New("ortho: word longer than max length")
	ErrUnknownRune  = errors.New("ortho: character not in alphabet")
	ErrMalformedRow = errors.New("ortho: malformed word list row")
)

// Encoder maps letters to one-hot vectors.
type Encoder struct {
	maxLen int
	index  map[rune]int
	runes  []rune
}

// New creates an encoder for words of at most maxLen letters.
func New(maxLen int, alphabet string) (*Encoder, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("ortho: max length must be positive, got %d", maxLen)
	}
	e := &Encoder{maxLen: maxLen, index: make(map[rune]int)}
	for _, r := range alphabet {
		e.add(r)
	}
	return e, nil
}

func (e *Encoder) add(r rune) {
	if _, ok := e.index[r]; ok {
		return
	}
	e.index[r] = len(e.runes)
	e.runes = append(e.runes, r)
}

// Fit extends the alphabet with every character seen in words, in sorted
// order so the feature layout does not depend on word order.
func (e *Encoder) Fit(words []string) {
	var extra []rune
	seen := make(map[rune]bool)
	for _, w := range words {
		for _, r := range w {
			if _, ok := e.index[r]; !ok && !seen[r] {
				seen[r] = true
				extra = append(extra, r)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, r := range extra {
		e.add(r)
	}
}

// Dim is the feature width of one position.
func (e *Encoder) Dim() int { return len(e.runes) }

func (e *Encoder) MaxLen() int { return e.maxLen }

// Alphabet returns the characters in feature order.
func (e *Encoder) Alphabet() string { return string(e.runes) }

// Encode returns an [len(words)][MaxLen][Dim] tensor.
func (e *Encoder) Encode(words []string) ([][][]float64, error) {
	out := make([][][]float64, len(words))
	for i, w := range words {
		if n := utf8.RuneCountInString(w); n > e.maxLen {
			return nil, fmt.Errorf("%w: %q has %d letters, max %d", ErrTooLong, w, n, e.maxLen)
		}
		seq := make([][]float64, e.maxLen)
		for p := range seq {
			seq[p] = make([]float64, len(e.runes))
		}
		p := 0
		for _, r := range w {
			idx, ok := e.index[r]
			if !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownRune, r, w)
			}
			seq[p][idx] = 1
			p++
		}
		out[i] = seq
	}
	return out, nil
}

// LoadWordList reads "word pronunciation" rows, keeps words of at most
// maxLen letters without hyphens, and wraps them in boundary markers.
func LoadWordList(r io.Reader, maxLen int) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedRow, line, len(fields))
		}
		word := fields[0]
		if utf8.RuneCountInString(word) > maxLen || strings.Contains(word, "-") {
			continue
		}
		words = append(words, string(Boundary)+word+string(Boundary))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ortho: reading word list: %w", err)
	}
	return words, nil
}
