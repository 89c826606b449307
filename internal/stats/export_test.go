package stats

// ResetShared drops the process-wide Socket so tests can exercise GetOrCreate
// from a clean slate.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		shared.Close()
	}
	shared = nil
}
