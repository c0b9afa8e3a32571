package prompts

import (
	_ "embed"
)

//go:embed system.txt
var DefaultSystemPrompt string

//go:embed planner.txt
var PlannerPrompt string

//go:embed site_task.txt
var SiteTaskTemplate string
