// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes user input for phrase matching: NFKC, case folded and with
// runs of whitespace collapsed to one space. "  Start\tMEETING " folds to
// "start meeting".
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// ContainsPhrase reports whether the folded input contains any of phrases.
// Phrases are expected to be lower case already.
func ContainsPhrase(input string, phrases ...string) bool {
	folded := Fold(input)
	for _, p := range phrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// EqualsPhrase reports whether the folded input is exactly one of phrases.
func EqualsPhrase(input string, phrases ...string) bool {
	folded := Fold(input)
	for _, p := range phrases {
		if folded == p {
			return true
		}
	}
	return false
}

// Words splits folded input into words, dropping punctuation but keeping
// apostrophes so "don't" stays one word.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
}

// HasWords reports whether input contains any of phrases as a run of whole
// words. "meeting end" matches "ok, meeting end." but not "the meeting ended".
func HasWords(input string, phrases ...string) bool {
	words := Words(input)
	for _, p := range phrases {
		want := strings.Fields(p)
		if len(want) == 0 {
			continue
		}
		for i := 0; i+len(want) <= len(words); i++ {
			if equalWords(words[i:i+len(want)], want) {
				return true
			}
		}
	}
	return false
}

func equalWords(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
