package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrValidation marks a write rejected before it reaches the store.
var ErrValidation = errors.New("validation failed")

// ReadingInput is the untyped body of POST /api/waste. Numeric fields accept
// JSON numbers or numeric strings.
type ReadingInput struct {
	BinID       string          `json:"binId"`
	WeightKg    json.RawMessage `json:"weightKg"`
	MoistureRaw json.RawMessage `json:"moistureRaw"`
	WasteTag    string          `json:"wasteTag"`
}

// NewReadingRequest is a validated ReadingInput.
type NewReadingRequest struct {
	BinID       string
	WeightKg    float64
	MoistureRaw float64
	WasteTag    string
}

// Validate checks the input and produces a typed request. Every failure wraps
// ErrValidation.
func (in ReadingInput) Validate() (NewReadingRequest, error) {
	if strings.TrimSpace(in.BinID) == "" {
		return NewReadingRequest{}, fmt.Errorf("%w: binId is required", ErrValidation)
	}
	if strings.TrimSpace(in.WasteTag) == "" {
		return NewReadingRequest{}, fmt.Errorf("%w: wasteTag is required", ErrValidation)
	}
	weight, err := parseFinite(in.WeightKg)
	if err != nil {
		return NewReadingRequest{}, fmt.Errorf("%w: weightKg %v", ErrValidation, err)
	}
	moisture, err := parseFinite(in.MoistureRaw)
	if err != nil {
		return NewReadingRequest{}, fmt.Errorf("%w: moistureRaw %v", ErrValidation, err)
	}
	return NewReadingRequest{
		BinID:       in.BinID,
		WeightKg:    weight,
		MoistureRaw: moisture,
		WasteTag:    in.WasteTag,
	}, nil
}

// Reading stamps the request with an id and a creation time. The timestamp is
// kept in UTC at millisecond precision so it survives storage unchanged.
func (r NewReadingRequest) Reading(id string, now time.Time) Reading {
	return Reading{
		ID:          id,
		BinID:       r.BinID,
		WeightKg:    r.WeightKg,
		MoistureRaw: r.MoistureRaw,
		WasteTag:    r.WasteTag,
		Timestamp:   now.UTC().Truncate(time.Millisecond),
	}
}

func parseFinite(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("is required")
	}

	var v float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errors.New("must be a number")
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("must be a number, got %q", s)
		}
		v = parsed
	} else if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errors.New("must be a number")
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be finite")
	}
	return v, nil
}
