// Package chess validates FEN positions, encodes them as network inputs and
// parses labeled board datasets.
package chess

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFEN is returned for malformed FEN strings.
var ErrInvalidFEN = errors.New("invalid FEN")

const (
	// Pieces lists the valid piece letters.
	Pieces = "rnbqkpRNBQKP"

	// Squares is the number of board squares.
	Squares = 64

	// PieceKinds is the number of distinct colored pieces.
	PieceKinds = 12

	// FeatureSize is the length of an encoded board.
	FeatureSize = Squares * PieceKinds
)

var enPassantSquare = regexp.MustCompile(`^[a-h][36]$`)

// ValidateFEN checks the six FEN fields and returns an error wrapping
// ErrInvalidFEN that names the first failing field.
func ValidateFEN(fen string) error {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return fmt.Errorf("%w: FEN string is empty", ErrInvalidFEN)
	}

	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return fmt.Errorf("%w: FEN must have exactly 6 parts, found %d", ErrInvalidFEN, len(parts))
	}

	checks := []struct {
		field string
		check func(string) error
	}{
		{"piece placement", validatePlacement},
		{"active color", validateColor},
		{"castling rights", validateCastling},
		{"en passant", validateEnPassant},
		{"halfmove clock", validateHalfmove},
		{"fullmove number", validateFullmove},
	}
	for i, c := range checks {
		if err := c.check(parts[i]); err != nil {
			return fmt.Errorf("%w: Invalid %s: %w", ErrInvalidFEN, c.field, err)
		}
	}

	white := strings.Count(parts[0], "K")
	black := strings.Count(parts[0], "k")
	if white != 1 || black != 1 {
		return fmt.Errorf("%w: Invalid number of kings (must be exactly one per side). Found %d white and %d black kings",
			ErrInvalidFEN, white, black)
	}
	return nil
}

func validatePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	for i, rank := range ranks {
		squares := 0
		for _, c := range rank {
			switch {
			case c >= '0' && c <= '9':
				n := int(c - '0')
				if n == 0 || n > 8 {
					return fmt.Errorf("invalid number of empty squares: %d", n)
				}
				squares += n
			case strings.ContainsRune(Pieces, c):
				squares++
			default:
				return fmt.Errorf("invalid piece character: %c", c)
			}
		}
		if squares != 8 {
			return fmt.Errorf("rank %d has %d squares instead of 8", i+1, squares)
		}
	}
	if len(ranks) != 8 {
		return fmt.Errorf("found %d ranks instead of 8", len(ranks))
	}
	return nil
}

func validateColor(color string) error {
	if color != "w" && color != "b" {
		return fmt.Errorf("active color must be 'w' or 'b', got: %s", color)
	}
	return nil
}

func validateCastling(castling string) error {
	if castling == "-" {
		return nil
	}
	seen := make(map[rune]bool, 4)
	for _, c := range castling {
		if seen[c] {
			return fmt.Errorf("duplicate castling rights in: %s", castling)
		}
		seen[c] = true
		if !strings.ContainsRune("KQkq", c) {
			return fmt.Errorf("invalid castling right: %c", c)
		}
	}
	return nil
}

func validateEnPassant(square string) error {
	if square == "-" || enPassantSquare.MatchString(square) {
		return nil
	}
	return fmt.Errorf("invalid en passant square: %s (must be '-' or a3-h3/a6-h6)", square)
}

func validateHalfmove(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number: %s", s)
	}
	if n < 0 {
		return fmt.Errorf("halfmove clock cannot be negative: %s", s)
	}
	return nil
}

func validateFullmove(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number: %s", s)
	}
	if n <= 0 {
		return fmt.Errorf("fullmove number must be positive: %s", s)
	}
	return nil
}

// pieceIndex maps a piece letter to its feature slot, or -1.
func pieceIndex(c rune) int {
	return strings.IndexRune("KQRBNPkqrbnp", c)
}

// Encode validates fen and one-hot encodes its piece placement. Squares are
// numbered from a8 (0) to h1 (63); the feature of piece p on square s is at
// s*12 + p with K Q R B N P k q r b n p in that order.
func Encode(fen string) ([]float64, error) {
	if err := ValidateFEN(fen); err != nil {
		return nil, err
	}
	features := make([]float64, FeatureSize)
	placement, _, _ := strings.Cut(strings.TrimSpace(fen), " ")
	square := 0
	for _, c := range placement {
		switch {
		case c == '/':
		case c >= '1' && c <= '8':
			square += int(c - '0')
		default:
			features[square*PieceKinds+pieceIndex(c)] = 1
			square++
		}
	}
	return features, nil
}
