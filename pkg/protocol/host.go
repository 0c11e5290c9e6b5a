package protocol

import (
	"encoding/json"
	"fmt"
)

// Command is a request verb understood by the native host.
type Command string

const (
	// CommandClassify assesses a single piece of text.
	CommandClassify Command = "classify"

	// CommandScan splits page text into chunks and assesses each.
	CommandScan Command = "scan"

	// CommandBatch assesses several texts at once. Only the probe tool sends it.
	CommandBatch Command = "batch"
)

// Valid reports whether c is a command the host understands.
func (c Command) Valid() bool {
	switch c {
	case CommandClassify, CommandScan, CommandBatch:
		return true
	}
	return false
}

// BinaryBullying is the only binary label treated as a positive finding.
const BinaryBullying = "bullying"

// HostRequest is the single message sent on a host session.
type HostRequest struct {
	Cmd   Command  `json:"cmd"`
	Text  string   `json:"text,omitempty"`
	Texts []string `json:"texts,omitempty"`
}

// HostResponse is the envelope the host answers with. Result is decoded
// lazily because its shape depends on Mode.
type HostResponse struct {
	OK     bool            `json:"ok"`
	Mode   Command         `json:"mode,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Matches reports whether the response is a successful answer to cmd.
func (r *HostResponse) Matches(cmd Command) bool {
	return r != nil && r.OK && r.Mode == cmd
}

// ClassifyResult is the host's verdict for one text.
type ClassifyResult struct {
	Binary    string             `json:"binary"`
	Type      *string            `json:"type"`
	PBully    float64            `json:"p_bully"`
	TypeProbs map[string]float64 `json:"type_probs,omitempty"`
}

// IsBullying reports whether the verdict is positive.
func (c ClassifyResult) IsBullying() bool {
	return c.Binary == BinaryBullying
}

// Category returns the bullying category, or "" when the host sent none.
func (c ClassifyResult) Category() string {
	if c.Type == nil {
		return ""
	}
	return *c.Type
}

// ScanHit is one chunk of page text the host flagged.
type ScanHit struct {
	Type      *string            `json:"type"`
	PBully    float64            `json:"p_bully"`
	Snippet   string             `json:"snippet"`
	TypeProbs map[string]float64 `json:"type_probs,omitempty"`
}

// Category returns the hit category, or "" when the host sent none.
func (h ScanHit) Category() string {
	if h.Type == nil {
		return ""
	}
	return *h.Type
}

// ScanResult lists flagged chunks in host order.
type ScanResult struct {
	Hits        []ScanHit `json:"hits"`
	TotalChunks int       `json:"total_chunks"`
}

// Classify decodes the result of a classify response.
func (r *HostResponse) Classify() (*ClassifyResult, error) {
	if !r.Matches(CommandClassify) {
		return nil, fmt.Errorf("response is not a classify result (ok=%t mode=%q)", r.OK, r.Mode)
	}
	var out ClassifyResult
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return nil, fmt.Errorf("failed to decode classify result: %w", err)
	}
	if out.PBully < 0 || out.PBully > 1 {
		return nil, fmt.Errorf("p_bully out of range: %v", out.PBully)
	}
	return &out, nil
}

// Scan decodes the result of a scan response.
func (r *HostResponse) Scan() (*ScanResult, error) {
	if !r.Matches(CommandScan) {
		return nil, fmt.Errorf("response is not a scan result (ok=%t mode=%q)", r.OK, r.Mode)
	}
	var out ScanResult
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return nil, fmt.Errorf("failed to decode scan result: %w", err)
	}
	if out.TotalChunks < 0 {
		return nil, fmt.Errorf("total_chunks is negative: %d", out.TotalChunks)
	}
	return &out, nil
}

// Batch decodes the result of a batch response.
func (r *HostResponse) Batch() ([]ClassifyResult, error) {
	if !r.Matches(CommandBatch) {
		return nil, fmt.Errorf("response is not a batch result (ok=%t mode=%q)", r.OK, r.Mode)
	}
	var out []ClassifyResult
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return nil, fmt.Errorf("failed to decode batch result: %w", err)
	}
	return out, nil
}
