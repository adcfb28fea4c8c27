package main

// loadingState tracks which startup loads have finished.
type loadingState map[string]bool

func newLoadingState(keys ...string) loadingState {
	l := make(loadingState, len(keys))
	for _, k := range keys {
		l[k] = false
	}
	return l
}

// set marks key as loaded
func (l loadingState) set(key string) {
	l[key] = true
}

// unset marks key as loading again
func (l loadingState) unset(key string) {
	l[key] = false
}

// allLoaded returns true if all keys are loaded, and otherwise one key that is not.
func (l loadingState) allLoaded() (bool, string) {
	for k, v := range l {
		if !v {
			return false, k
		}
	}

	return true, ""
}
