package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter creates a custom help printer with Lipgloss styling.
// Help is rendered for the selected command, or the application when none
// is selected.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		fmt.Fprint(ctx.Stdout, renderHelp(ctx))
		return nil
	}
}

func renderHelp(ctx *kong.Context) string {
	node := ctx.Selected()
	if node == nil {
		node = ctx.Model.Node
	}

	var sb strings.Builder

	// Title and description
	sb.WriteString(helpTitleStyle.Render("Ticktock ⏱"))
	sb.WriteString("\n")
	desc := ctx.Model.Help
	if node != ctx.Model.Node && node.Help != "" {
		desc = node.Help
	}
	sb.WriteString(helpDescStyle.Render(desc))
	sb.WriteString("\n")

	// Usage
	sb.WriteString(helpSectionStyle.Render("Usage:"))
	sb.WriteString("\n  ")
	sb.WriteString(usageLine(ctx.Model.Name, node))
	sb.WriteString("\n")

	// Commands section
	if cmds := getCommands(node); len(cmds) > 0 {
		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Commands:"))
		sb.WriteString("\n")
		for _, cmd := range cmds {
			sb.WriteString("  ")
			sb.WriteString(helpArgStyle.Render(cmd.name))
			if cmd.help != "" {
				sb.WriteString("  ")
				sb.WriteString(cmd.help)
			}
			sb.WriteString("\n")
		}
	}

	// Arguments section
	if args := getArguments(node); len(args) > 0 {
		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Arguments:"))
		sb.WriteString("\n")
		for _, arg := range args {
			sb.WriteString("  ")
			sb.WriteString(helpArgStyle.Render(arg.name))
			if arg.help != "" {
				sb.WriteString("  ")
				sb.WriteString(arg.help)
			}
			sb.WriteString("\n")
		}
	}

	// Flags section
	if flags := getFlags(node); len(flags) > 0 {
		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, flag := range flags {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(flag.flags))
			if flag.help != "" {
				sb.WriteString("  ")
				sb.WriteString(flag.help)
			}
			if flag.defaultVal != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("(default: " + flag.defaultVal + ")"))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// usageLine renders the invocation for node. Node paths omit the
// application name, so it is prefixed here.
func usageLine(appName string, node *kong.Node) string {
	path := strings.TrimSpace(appName + " " + node.Path())
	if len(node.Children) > 0 {
		return fmt.Sprintf("%s <command> [flags]", path)
	}
	parts := []string{path, "[flags]"}
	for _, arg := range node.Positional {
		parts = append(parts, arg.Summary())
	}
	return strings.Join(parts, " ")
}

type command struct {
	name string
	help string
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

func getCommands(node *kong.Node) []command {
	var cmds []command
	for _, child := range node.Children {
		if child.Hidden {
			continue
		}
		cmds = append(cmds, command{name: child.Summary(), help: child.Help})
	}
	return cmds
}

func getArguments(node *kong.Node) []argument {
	var args []argument

	for _, arg := range node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}

	return args
}

func getFlags(node *kong.Node) []flag {
	var flags []flag

	// Always include help flag
	flags = append(flags, flag{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	})

	// Flags of the node and its parents
	for _, group := range node.AllFlags(true) {
		for _, f := range group {
			if f.Name == "help" {
				continue // Already added
			}

			flagStr := ""
			if f.Short != 0 {
				flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			} else {
				flagStr = fmt.Sprintf("--%s", f.Name)
			}

			if !f.IsBool() {
				flagStr += "=" + strings.ToUpper(f.FormatPlaceHolder())
			}

			flags = append(flags, flag{
				flags:      flagStr,
				help:       f.Help,
				defaultVal: f.Default,
			})
		}
	}

	return flags
}
