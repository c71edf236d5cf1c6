package colors

import (
	"github.com/fatih/color"
)

var Joined = color.RGB(3, 252, 202).SprintFunc()
var Left = color.RGB(115, 115, 115).SprintFunc()
var Moved = color.RGB(120, 180, 255).SprintFunc()
var Warning = color.RGB(255, 241, 41).SprintFunc()
var Error = color.RGB(255, 41, 77).SprintFunc()
