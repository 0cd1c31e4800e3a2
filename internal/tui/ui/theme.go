package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds the console palette.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	MutedColor       tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	TableHeaderFg    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	CrumbActiveFg    tcell.Color
	CrumbActiveBg    tcell.Color
	CrumbInactiveFg  tcell.Color
	CrumbInactiveBg  tcell.Color
	MenuKeyColor     tcell.Color
	DangerKeyColor   tcell.Color
	CounterColor     tcell.Color
	BarColor         tcell.Color
	FlashInfoColor   tcell.Color
	FlashWarnColor   tcell.Color
	FlashErrColor    tcell.Color
	FieldBgColor     tcell.Color
	ButtonBgColor    tcell.Color
}

// DefaultTheme returns the dark console theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorWheat,
		MutedColor:       tcell.ColorGray,
		BorderColor:      tcell.ColorDarkOrange,
		BorderFocusColor: tcell.ColorOrange,
		TitleColor:       tcell.ColorGold,
		TableHeaderFg:    tcell.ColorWhite,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorOrange,
		CrumbActiveFg:    tcell.ColorBlack,
		CrumbActiveBg:    tcell.ColorGold,
		CrumbInactiveFg:  tcell.ColorBlack,
		CrumbInactiveBg:  tcell.ColorDarkKhaki,
		MenuKeyColor:     tcell.ColorDarkOrange,
		DangerKeyColor:   tcell.ColorOrangeRed,
		CounterColor:     tcell.ColorPapayaWhip,
		BarColor:         tcell.ColorGold,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashWarnColor:   tcell.ColorOrange,
		FlashErrColor:    tcell.ColorOrangeRed,
		FieldBgColor:     tcell.ColorDarkSlateGray,
		ButtonBgColor:    tcell.ColorDarkOrange,
	}
}

// Tag returns a tview color tag for c.
func Tag(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
