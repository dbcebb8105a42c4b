package chess

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sample is one parsed dataset line.
type Sample struct {
	Line     int
	FEN      string
	Features []float64
	Label    Label
	HasLabel bool
}

// ParseDataset reads one board per line: the six FEN fields followed by an
// optional outcome label. Blank lines and lines starting with '#' are
// skipped.
func ParseDataset(r io.Reader) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		n := min(6, len(fields))
		sample := Sample{Line: lineNum, FEN: strings.Join(fields[:n], " ")}

		features, err := Encode(sample.FEN)
		if err != nil {
			return nil, fmt.Errorf("Invalid FEN notation at line %d: %w", lineNum, err)
		}
		sample.Features = features

		if n < len(fields) {
			label, err := ParseLabel(strings.Join(fields[n:], " "))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			sample.Label = label
			sample.HasLabel = true
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return samples, nil
}

// LoadDataset parses the dataset file at path.
func LoadDataset(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return ParseDataset(f)
}
