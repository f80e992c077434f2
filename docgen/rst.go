package docgen

import (
	"strings"
)

const outputMarker = "Output:"

// IndexHeader starts the commands index; group entries are appended as
// toctree lines.
func IndexHeader(documentation string) string {
	return "========\nCommands\n========\n\n" + documentation + "\n\n.. toctree::\n   :maxdepth: 0\n"
}

// GroupHeader starts a group page.
func GroupHeader(project, group string) string {
	return group + "\n" + strings.Repeat("=", len(group)) + "\n" +
		"\nThis section is auto-generated from the help text for the " + project + " command\n``" + group + "``.\n\n"
}

// CommandSection renders one subcommand from its raw documentation and
// captured help output.
func CommandSection(sub, raw, help string) string {
	helpText, output := SplitDoc(raw)
	body := strings.Join(HelpLines(help, helpText, output), "\n")
	underline := strings.Repeat("-", len(sub)+len("```` command"))
	return "\n``" + sub + "`` command\n" + underline + "\n\n" + body + "\n"
}

// SplitDoc separates the help text from the worked-example section. The
// help text is the documentation dedented by four columns and cut before
// the output marker; the example is everything after the marker, dedented
// by five columns.
func SplitDoc(raw string) (helpText, output string) {
	clean := Dedent(raw, 4)
	i := strings.Index(clean, outputMarker)
	if i < 0 {
		return clean, ""
	}
	helpText = clean[:i]

	example := Dedent(raw, 5)
	if j := strings.Index(example, outputMarker); j >= 0 {
		output = strings.TrimLeft(example[j+len(outputMarker):], "\n")
	}
	return helpText, output
}

// Dedent removes n leading spaces from every line that has them.
func Dedent(s string, n int) string {
	margin := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

type section int

const (
	sectionNone section = iota
	sectionHelp
	sectionOptions
	sectionOutput
)

// HelpLines walks captured help output. A usage line opens the usage and
// help blocks, "Options:" starts verbatim option passthrough, and a line
// starting with the output marker injects the worked example. Other lines
// are kept only inside the options block.
func HelpLines(help, helpText, output string) []string {
	var lines []string
	state := sectionNone
	for _, line := range strings.Split(help, "\n") {
		switch {
		case strings.HasPrefix(line, "Usage: "):
			lines = append(lines,
				"**Usage**::\n\n    "+strings.TrimPrefix(line, "Usage: "),
				"\n**Help**\n",
				helpText,
			)
			state = sectionHelp
		case strings.HasPrefix(line, "Options:"):
			lines = append(lines, "**Options**::\n\n")
			state = sectionOptions
		case strings.HasPrefix(strings.TrimSpace(line), outputMarker):
			lines = append(lines, "**Output**\n\n", output)
			state = sectionOutput
		case state == sectionOptions:
			lines = append(lines, "    "+line)
		}
	}
	return lines
}
