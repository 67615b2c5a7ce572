package diag

// Reporter — минимальный контракт получения диагностик от нормализаторов.
type Reporter interface {
	Report(d Diagnostic)
}

// SetReporter — адаптер, который пишет в *Set.
type SetReporter struct{ Set *Set }

func (r SetReporter) Report(d Diagnostic) {
	if r.Set == nil {
		return
	}
	r.Set.Add(d)
}
