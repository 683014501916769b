package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// wireRecord is the JSON shape of a stored record.
type wireRecord struct {
	Name    string  `json:"name"`
	Outcome string  `json:"outcome"`
	Time    float64 `json:"time"`
}

// Encode serializes a record as JSON.
func Encode(rec Record) ([]byte, error) {
	data, err := json.Marshal(wireRecord{
		Name:    rec.Name,
		Outcome: string(rec.Outcome),
		Time:    Seconds(rec.Time),
	})
	if err != nil {
		return nil, fmt.Errorf("encode record %q: %w", rec.Name, err)
	}
	return data, nil
}

// Decode parses a stored record. It accepts the JSON encoding written by
// Encode and the legacy "name:code:time" text. The outcome is preserved
// as stored, so callers must check Outcome.Valid.
func Decode(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Record{}, fmt.Errorf("%w: empty", ErrCorruptRecord)
	}
	if trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}
	return decodeLegacy(string(trimmed))
}

func decodeJSON(data []byte) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if w.Name == "" {
		return Record{}, fmt.Errorf("%w: missing name", ErrCorruptRecord)
	}
	return Record{
		Name:    w.Name,
		Outcome: Outcome(w.Outcome),
		Time:    FromSeconds(w.Time),
	}, nil
}

func decodeLegacy(text string) (Record, error) {
	parts := strings.Split(text, Delimiter)
	if len(parts) != 3 {
		return Record{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrCorruptRecord, len(parts))
	}
	if parts[0] == "" {
		return Record{}, fmt.Errorf("%w: missing name", ErrCorruptRecord)
	}

	ts, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad timestamp %q", ErrCorruptRecord, parts[2])
	}

	return Record{
		Name:    parts[0],
		Outcome: legacyOutcome(strings.TrimSpace(parts[1])),
		Time:    FromSeconds(ts),
	}, nil
}

// legacyOutcome maps a numeric code to its outcome. Anything unrecognized is
// kept verbatim so the reporter can flag it.
func legacyOutcome(code string) Outcome {
	i, err := strconv.Atoi(code)
	if err != nil || i < 0 || i >= len(legacyCodes) {
		return Outcome(strings.ToLower(code))
	}
	return legacyCodes[i]
}
