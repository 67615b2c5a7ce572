package lsp

import (
	"context"
	"sort"
	"time"

	"fortio.org/safecast"

	"mu/internal/diag"
)

func (d *document) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// scheduleDiagnostics restarts the debounce timer of one document and
// cancels a check still running for an older text.
func (s *Server) scheduleDiagnostics(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok || !doc.python || s.shutdownRequested {
		return
	}
	doc.stop()
	doc.seq++
	seq := doc.seq
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(uri, seq)
	})
}

func (s *Server) scheduleAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		s.scheduleDiagnostics(uri)
	}
}

func (s *Server) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		doc.stop()
	}
}

// runDiagnostics checks the document as of seq and publishes the result
// unless the document changed or closed meanwhile.
func (s *Server) runDiagnostics(uri string, seq uint64) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok || doc.seq != seq || s.check == nil || s.shutdownRequested || s.baseCtx.Err() != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	doc.cancel = cancel
	text, version := doc.text, doc.version
	limit := s.maxDiagnostics
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer cancel()

	set, err := s.check(ctx, displayName(uri), text)
	if err != nil {
		s.logf("check %s: %v", uri, err)
	}
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	doc, ok = s.docs[uri]
	if !ok || doc.seq != seq {
		s.mu.Unlock()
		return
	}
	doc.cancel = nil
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	list := toLSP(set, limit)
	if err := s.sendPublish(uri, &version, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
	}
	if s.currentTrace() {
		s.logf("published %d diagnostics for %s (version %d)", len(list), uri, version)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	uris := make([]string, 0, len(prev))
	for uri := range prev {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

// toLSP converts a set in line order. A diagnostic with a column covers
// one character; one without sits at the start of its line.
func toLSP(set *diag.Set, limit int) []lspDiagnostic {
	if set == nil {
		return nil
	}
	items := set.Items()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		line, err := safecast.Conv[int](d.Line)
		if err != nil {
			continue
		}
		start := position{Line: line}
		end := start
		if d.HasColumn {
			col, err := safecast.Conv[int](d.Column)
			if err != nil {
				continue
			}
			start.Character = col
			end.Character = col + 1
		}
		severity := severityError
		if d.Severity == diag.SevStyle {
			severity = severityWarning
		}
		out = append(out, lspDiagnostic{
			Range:    lspRange{Start: start, End: end},
			Severity: severity,
			Code:     d.Code,
			Source:   "mu",
			Message:  d.Message,
		})
	}
	return out
}
