package lsp

import (
	"encoding/json"
	"time"
)

// clientSettings is the "mu" section a client sends in
// initializationOptions or workspace/didChangeConfiguration.
// Absent fields leave the current value alone.
type clientSettings struct {
	MaxDiagnostics *int  `json:"maxDiagnostics,omitempty"`
	DebounceMs     *int  `json:"debounceMs,omitempty"`
	Trace          *bool `json:"trace,omitempty"`
}

func decodeSettings(raw json.RawMessage) (clientSettings, bool) {
	var wrapper struct {
		Mu *clientSettings `json:"mu"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &wrapper) != nil || wrapper.Mu == nil {
		return clientSettings{}, false
	}
	return *wrapper.Mu, true
}

// applySettings updates the server from raw client settings. Malformed
// input and out-of-range values are ignored.
func (s *Server) applySettings(raw json.RawMessage) {
	cs, ok := decodeSettings(raw)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs.MaxDiagnostics != nil && *cs.MaxDiagnostics > 0 {
		s.maxDiagnostics = *cs.MaxDiagnostics
	}
	if cs.DebounceMs != nil && *cs.DebounceMs >= 0 {
		s.debounce = time.Duration(*cs.DebounceMs) * time.Millisecond
	}
	if cs.Trace != nil {
		s.traceLSP = *cs.Trace
	}
}

// handleDidChangeConfiguration applies new settings and rechecks every open
// script, since the limit may have changed what gets published.
func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params struct {
		Settings json.RawMessage `json:"settings"`
	}
	if len(msg.Params) == 0 || json.Unmarshal(msg.Params, &params) != nil {
		return nil
	}
	s.applySettings(params.Settings)
	s.scheduleAll()
	return nil
}
