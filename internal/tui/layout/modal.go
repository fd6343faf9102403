package layout

// CalculateModalWidth returns widthPercent of the terminal width, clamped
// to the modal bounds and kept two cells clear of each terminal edge.
func CalculateModalWidth(terminalWidth, widthPercent int, cfg ModalConfig) int {
	width := max(cfg.MinWidth, min(terminalWidth*widthPercent/100, cfg.MaxWidth))
	return max(1, min(width, terminalWidth-4))
}
