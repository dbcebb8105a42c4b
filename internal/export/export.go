// Package export writes predictions as Apache Arrow IPC streams.
package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lava-ml/lavatensor/internal/train"
)

// Schema is the layout of an exported prediction stream.
var Schema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "fen", Type: arrow.BinaryTypes.String},
		{Name: "label", Type: arrow.BinaryTypes.String},
		{Name: "class", Type: arrow.PrimitiveTypes.Int32},
		{Name: "confidence", Type: arrow.PrimitiveTypes.Float64},
	},
	nil,
)

// Record builds a record batch holding preds. The caller releases it.
func Record(pool memory.Allocator, preds []train.Prediction) arrow.RecordBatch {
	fens := array.NewStringBuilder(pool)
	defer fens.Release()
	labels := array.NewStringBuilder(pool)
	defer labels.Release()
	classes := array.NewInt32Builder(pool)
	defer classes.Release()
	confidences := array.NewFloat64Builder(pool)
	defer confidences.Release()

	for _, p := range preds {
		fens.Append(p.FEN)
		labels.Append(p.Label.String())
		classes.Append(int32(p.Label))
		confidences.Append(p.Confidence)
	}

	cols := []arrow.Array{fens.NewArray(), labels.NewArray(), classes.NewArray(), confidences.NewArray()}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecordBatch(Schema, cols, int64(len(preds)))
}

// WritePredictions writes preds to w as a single-batch IPC stream.
func WritePredictions(w io.Writer, preds []train.Prediction) error {
	pool := memory.NewGoAllocator()
	rec := Record(pool, preds)
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(Schema), ipc.WithAllocator(pool))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write arrow stream: %w", err)
	}
	return writer.Close()
}
