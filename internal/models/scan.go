package models

import (
	"bytes"
	"encoding/json"
)

// ScanMode is the capture mode requested from the scan capability.
type ScanMode string

const (
	ScanModeCard ScanMode = "CARD"
	ScanModeText ScanMode = "TEXT"
)

// Valid reports whether m is a known mode.
func (m ScanMode) Valid() bool {
	return m == ScanModeCard || m == ScanModeText
}

// ScanResult is what the external scan capability returns for one capture.
//
// Data is either a JSON string (extracted text) or a JSON object
// (extracted contact fields, or an object with a "content" field).
type ScanResult struct {
	Data     json.RawMessage `json:"data"`
	ImageURL string          `json:"imageUrl"`
	IsDoc    bool            `json:"isDoc,omitempty"`
	IsCode   bool            `json:"isCode,omitempty"`
	CodeType string          `json:"codeType,omitempty"`
}

// Text returns the payload as a string when Data is a JSON string.
func (r ScanResult) Text() (string, bool) {
	trimmed := bytes.TrimSpace(r.Data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// IsObject reports whether Data is a JSON object.
func (r ScanResult) IsObject() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// TextPayload builds a Data value carrying s as a JSON string.
func TextPayload(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
