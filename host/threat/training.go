package threat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var trainingHeader = []string{"heart_rate", "voice_data", "threat_level"}

// ReadTraining parses labelled examples from CSV with the columns
// heart_rate, voice_data and threat_level
func ReadTraining(r io.Reader) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trainingHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("threat: read header: %w", err)
	}
	for i, name := range trainingHeader {
		if strings.TrimSpace(header[i]) != name {
			return nil, fmt.Errorf("threat: column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var examples []Example
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("threat: %w", err)
		}
		line, _ := cr.FieldPos(0)

		hr, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("threat: line %d: heart_rate: %w", line, err)
		}
		voice, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("threat: line %d: voice_data: %w", line, err)
		}
		level, err := ParseLevel(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		examples = append(examples, Example{Reading{HeartRate: hr, Voice: voice}, level})
	}
	return examples, nil
}

// LoadFile fits a classifier to a training CSV on disk
func LoadFile(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("threat: %w", err)
	}
	defer f.Close()

	examples, err := ReadTraining(f)
	if err != nil {
		return nil, err
	}
	return New(examples)
}
