package chess_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/chess"
)

const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// TestValidateFEN_Valid accepts well-formed positions.
func TestValidateFEN_Valid(t *testing.T) {
	for _, fen := range []string{
		start,
		"  " + start + "  ",
		"4k3/8/8/8/8/8/8/4K3 b - e3 12 40",
		"4k3/8/8/8/8/8/8/4K3 w Kq a6 0 1",
	} {
		assert.NoError(t, chess.ValidateFEN(fen), fen)
	}
}

// TestValidateFEN_Invalid names the failing field.
func TestValidateFEN_Invalid(t *testing.T) {
	tests := []struct {
		fen string
		msg string
	}{
		{"", "empty"},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0", "exactly 6 parts"},
		{"4k3/8/8/8/8/8/8/4K3/8 w - - 0 1", "Invalid piece placement"},
		{"4k3/8/8/8/8/8/8 w - - 0 1", "Invalid piece placement"},
		{"4k3/8/8/8/8/8/8/4K2 w - - 0 1", "Invalid piece placement"},
		{"4k3/8/8/8/8/8/8/4X3 w - - 0 1", "Invalid piece placement"},
		{"4k3/8/8/8/8/8/8/4K30 w - - 0 1", "Invalid piece placement"},
		{"4k3/8/8/8/8/8/8/4K3 x - - 0 1", "Invalid active color"},
		{"4k3/8/8/8/8/8/8/4K3 w KK - 0 1", "Invalid castling rights"},
		{"4k3/8/8/8/8/8/8/4K3 w KA - 0 1", "Invalid castling rights"},
		{"4k3/8/8/8/8/8/8/4K3 w - e4 0 1", "Invalid en passant"},
		{"4k3/8/8/8/8/8/8/4K3 w - - -1 1", "Invalid halfmove clock"},
		{"4k3/8/8/8/8/8/8/4K3 w - - x 1", "Invalid halfmove clock"},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 0", "Invalid fullmove number"},
		{"4k3/8/8/8/8/8/8/8 w - - 0 1", "number of kings"},
		{"4kk2/8/8/8/8/8/8/4K3 w - - 0 1", "number of kings"},
	}

	for _, tt := range tests {
		err := chess.ValidateFEN(tt.fen)
		require.Error(t, err, tt.fen)
		assert.ErrorIs(t, err, chess.ErrInvalidFEN)
		assert.Contains(t, err.Error(), tt.msg, tt.fen)
	}
}

// TestEncode sets one feature per piece.
func TestEncode(t *testing.T) {
	features, err := chess.Encode(start)
	require.NoError(t, err)
	require.Len(t, features, chess.FeatureSize)

	var total float64
	for _, v := range features {
		total += v
	}
	assert.Equal(t, 32.0, total)

	assert.Equal(t, 1.0, features[0*12+8])  // a8 black rook
	assert.Equal(t, 1.0, features[4*12+6])  // e8 black king
	assert.Equal(t, 1.0, features[8*12+11]) // a7 black pawn
	assert.Equal(t, 1.0, features[48*12+5]) // a2 white pawn
	assert.Equal(t, 1.0, features[59*12+1]) // d1 white queen
	assert.Equal(t, 1.0, features[60*12+0]) // e1 white king
	assert.Equal(t, 0.0, features[32*12+5]) // a4 empty

	_, err = chess.Encode("nope")
	assert.ErrorIs(t, err, chess.ErrInvalidFEN)
}

// TestParseLabel covers every class and the color-agnostic ones.
func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want chess.Label
	}{
		{"Checkmate White", chess.CheckmateWhite},
		{"Checkmate Black", chess.CheckmateBlack},
		{"Check White", chess.CheckWhite},
		{"check   black", chess.CheckBlack},
		{"Stalemate", chess.Stalemate},
		{"Stalemate White", chess.Stalemate},
		{"Nothing", chess.Nothing},
		{"nothing black", chess.Nothing},
	}
	for _, tt := range tests {
		got, err := chess.ParseLabel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := chess.ParseLabel("Check")
	assert.ErrorIs(t, err, chess.ErrUnknownLabel)

	assert.Equal(t, "Check Black", chess.CheckBlack.String())
	assert.Equal(t, "Label(9)", chess.Label(9).String())
	assert.Equal(t, 6, chess.NumLabels)
}

// TestParseDataset skips comments and keeps optional labels.
func TestParseDataset(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		"",
		start + " Nothing",
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/4Q3/4K3/8/8/8/8/8 b - - 0 1 Checkmate Black",
	}, "\n")

	samples, err := chess.ParseDataset(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, 3, samples[0].Line)
	assert.Equal(t, start, samples[0].FEN)
	assert.True(t, samples[0].HasLabel)
	assert.Equal(t, chess.Nothing, samples[0].Label)
	assert.Len(t, samples[0].Features, chess.FeatureSize)

	assert.False(t, samples[1].HasLabel)
	assert.Equal(t, chess.CheckmateBlack, samples[2].Label)
}

// TestParseDataset_Errors reports the offending line.
func TestParseDataset_Errors(t *testing.T) {
	_, err := chess.ParseDataset(strings.NewReader("# c\n4k3/8/8/8/8/8/8/4K3 w - - 0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, chess.ErrInvalidFEN)
	assert.Contains(t, err.Error(), "Invalid FEN notation at line 2")

	_, err = chess.ParseDataset(strings.NewReader(start + " Winning\n"))
	assert.ErrorIs(t, err, chess.ErrUnknownLabel)
}
