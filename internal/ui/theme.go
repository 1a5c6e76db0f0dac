package ui

import "image/color"

var (
	colBG        = color.RGBA{20, 20, 30, 255}
	colGridMinor = color.RGBA{45, 45, 58, 255}
	colGridMajor = color.RGBA{70, 70, 88, 255}

	colNodeBody    = color.RGBA{30, 32, 40, 255}
	colNodeTitle   = color.RGBA{48, 52, 66, 255}
	colNodeBorder  = color.RGBA{90, 94, 110, 255}
	colNodeFocused = color.RGBA{110, 160, 255, 255}
	colNodeDirty   = color.RGBA{230, 180, 80, 255}

	colToolbar      = color.RGBA{36, 38, 48, 255}
	colButton       = color.RGBA{58, 62, 78, 255}
	colButtonBorder = color.RGBA{240, 240, 240, 255}
	colInputBox     = color.RGBA{40, 40, 40, 255}

	colDiagError = color.RGBA{220, 70, 70, 255}
	colDiagWarn  = color.RGBA{220, 180, 60, 255}
)
