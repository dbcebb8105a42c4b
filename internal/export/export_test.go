package export_test

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lava-ml/lavatensor/internal/chess"
	"github.com/lava-ml/lavatensor/internal/export"
	"github.com/lava-ml/lavatensor/internal/train"
)

// TestWritePredictions round-trips through an IPC reader.
func TestWritePredictions(t *testing.T) {
	preds := []train.Prediction{
		{FEN: "4k3/8/8/8/8/8/8/4K3 w - - 0 1", Label: chess.Nothing, Confidence: 0.9},
		{FEN: "k7/8/8/8/8/8/8/7K b - - 0 1", Label: chess.CheckBlack, Confidence: 0.4},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WritePredictions(&buf, preds))

	rdr, err := ipc.NewReader(&buf, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer rdr.Release()

	assert.True(t, rdr.Schema().Equal(export.Schema))
	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.Equal(t, int64(2), rec.NumRows())

	fens := rec.Column(0).(*array.String)
	labels := rec.Column(1).(*array.String)
	classes := rec.Column(2).(*array.Int32)
	confidences := rec.Column(3).(*array.Float64)

	assert.Equal(t, preds[1].FEN, fens.Value(1))
	assert.Equal(t, "Nothing", labels.Value(0))
	assert.Equal(t, "Check Black", labels.Value(1))
	assert.Equal(t, []int32{5, 3}, classes.Int32Values())
	assert.Equal(t, []float64{0.9, 0.4}, confidences.Float64Values())
	assert.False(t, rdr.Next())
}

// TestRecord_Empty builds a zero-row batch.
func TestRecord_Empty(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	rec := export.Record(pool, nil)
	assert.Equal(t, int64(0), rec.NumRows())
	assert.Equal(t, int64(4), rec.NumCols())
	rec.Release()
}
