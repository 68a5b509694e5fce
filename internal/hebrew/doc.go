// Package hebrew projects text onto its Hebrew consonants. Only the letters
// א..ת survive; final forms fold to their standard letters and every other
// rune (spaces, punctuation, niqqud, cantillation, digits, Latin) is dropped.
// The projection keeps a position map so a match in the letter stream can be
// traced back to its exact span in the original text.
package hebrew
