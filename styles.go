package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/lunchtogo/overview"
)

type styles struct {
	docStyle   lipgloss.Style
	titleStyle lipgloss.Style
	errorStyle lipgloss.Style
	hintStyle  lipgloss.Style
	badgeStyle lipgloss.Style
}

func createStyles(theme Theme) styles {
	return styles{
		docStyle:   lipgloss.NewStyle().Margin(1, standardMargin),
		titleStyle: lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		errorStyle: lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
		hintStyle:  lipgloss.NewStyle().Foreground(theme.SecondaryText),
		badgeStyle: lipgloss.NewStyle().Foreground(theme.Warning).Bold(true),
	}
}

func createOverviewStyles(theme Theme) overview.Styles {
	return overview.Styles{
		AssetStyle:     lipgloss.NewStyle().Foreground(theme.Success),
		LiabilityStyle: lipgloss.NewStyle().Foreground(theme.Error),
		TreeRootStyle:  lipgloss.NewStyle().Foreground(theme.Muted),
		GroupStyle:     lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		TypeStyle:      lipgloss.NewStyle().Foreground(theme.SecondaryText),
		AccountStyle:   lipgloss.NewStyle().Foreground(theme.Text),
		StaleStyle:     lipgloss.NewStyle().Foreground(theme.Warning),
		TooltipStyle:   lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
		BoxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
	}
}

func createHelpModel(theme Theme) help.Model {
	helpModel := help.New()
	helpModel.ShortSeparator = " + "
	helpModel.Styles = help.Styles{
		Ellipsis:       lipgloss.NewStyle().Foreground(theme.SecondaryText),
		ShortKey:       lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		ShortDesc:      lipgloss.NewStyle().Foreground(theme.Text),
		ShortSeparator: lipgloss.NewStyle().Foreground(theme.SecondaryText),
		FullKey:        lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		FullDesc:       lipgloss.NewStyle().Foreground(theme.Text),
		FullSeparator:  lipgloss.NewStyle().Foreground(theme.SecondaryText),
	}
	return helpModel
}
