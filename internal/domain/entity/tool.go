package entity

type ToolName string

const (
	ToolNavigate   ToolName = "navigate"
	ToolClick      ToolName = "click"
	ToolFill       ToolName = "fill"
	ToolPressEnter ToolName = "press_enter"
	ToolScroll     ToolName = "scroll"
	ToolExtract    ToolName = "extract"
	ToolUISummary  ToolName = "ui_summary"
	ToolDone       ToolName = "done"
)

func (t ToolName) String() string {
	return string(t)
}
