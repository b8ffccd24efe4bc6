package history

// IsPaste reports whether tr originated from a paste.
// The editing surface tags pastes with the same annotations this checks.
func IsPaste(tr *Transaction) bool {
	if tr == nil {
		return false
	}
	return tr.Meta.Paste || tr.Meta.UIEvent == UIEventPaste
}

// containsPaste reports whether any transaction in batch is a paste.
func containsPaste(batch []*Transaction) bool {
	for _, tr := range batch {
		if IsPaste(tr) {
			return true
		}
	}
	return false
}

// containsDocChange reports whether any transaction in batch modifies the document.
func containsDocChange(batch []*Transaction) bool {
	for _, tr := range batch {
		if tr.DocChanged() {
			return true
		}
	}
	return false
}
