package main

// standardMargin is the horizontal margin around the whole view.
const standardMargin = 2

// Loading keys
const (
	preferencesKey = "preferences"
	accountsKey    = "accounts"
)

// Session states
type sessionState int

const (
	overviewState sessionState = iota
	loading
	configView
	errorState
)

func (ss sessionState) String() string {
	switch ss {
	case overviewState:
		return "overview"
	case loading:
		return "loading"
	case configView:
		return "configuration"
	case errorState:
		return "error"
	}

	return "unknown"
}
