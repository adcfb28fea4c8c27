package main

import (
	"fmt"
	"strings"

	"github.com/Rshep3087/lunchtogo/dashboard"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")

	switch m.sessionState {
	case overviewState:
		b.WriteString(m.overview.View())
	case configView:
		b.WriteString(m.configView.View())
	case loading:
		b.WriteString(fmt.Sprintf("%s Loading accounts...", m.loadingSpinner.View()))
	case errorState:
		b.WriteString(m.styles.errorStyle.Render(fmt.Sprintf("%s - 'r' to retry, 'q' to quit", m.errorMsg)))
		return m.styles.docStyle.Render(b.String())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.hintStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.docStyle.Render(b.String())
}

func (m model) renderTitle() string {
	var b strings.Builder

	b.WriteString(m.styles.titleStyle.Render(fmt.Sprintf("lunchtogo | %s", m.sessionState.String())))

	if m.snapshot != nil && m.snapshot.Source == dashboard.SourceDemo {
		b.WriteString(" ")
		b.WriteString(m.styles.badgeStyle.Render("[demo data]"))
	}

	return b.String()
}
