package main

import (
	"fmt"
	"io"

	audit2pdf "github.com/alnah/go-audit2pdf"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: audit2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export audit reports to PDF or ZIP")
	fmt.Fprintln(w, "  sections   List the report sections that can be exported")
	fmt.Fprintln(w, "  doctor     Check the system is ready to export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'audit2pdf help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: audit2pdf export <report>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export audit reports (YAML or JSON) as paginated, branded documents.")
	fmt.Fprintln(w, "Files are named Website-Audit-<domain>.<format>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  report    Report file or directory of reports")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory, or file for a single report")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, zip")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel exports (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "  -s, --sections <ids>      Sections to export, comma-separated")
	fmt.Fprintln(w, "                            \"all\" adds pitch and call notes, \"none\" exports branding only")
	fmt.Fprintln(w, "      --title <s>           Report heading")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, short")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Branding:")
	fmt.Fprintln(w, "      --header <s>          Page header text")
	fmt.Fprintln(w, "      --footer <s>          Page footer text")
	fmt.Fprintln(w, "      --logo <path>         PNG or JPEG logo, at most 2 MiB")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter")
	fmt.Fprintln(w, "      --theme <s>           Theme the report is captured in: light, dark")
	fmt.Fprintln(w, "      --scale <f>           Capture scale, up to 4 (default 2)")
	fmt.Fprintln(w, "      --layout-width <n>    Layout width in CSS px (default 1024)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Capture timeout (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name>        CSS style name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-export details")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "sections":
		fmt.Fprintln(env.Stdout, "Usage: audit2pdf sections")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List section ids, their labels, and whether they are exported by default.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: audit2pdf doctor [--json] [--asset-path DIR]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, the sandbox setting, temp directory access and report assets.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: audit2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: audit2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

// runSections lists the exportable sections.
func runSections(env *Environment) {
	for _, s := range audit2pdf.Sections() {
		mark := " "
		if s.Default {
			mark = "*"
		}
		fmt.Fprintf(env.Stdout, "%s %-26s %s\n", mark, s.ID, s.Label)
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "* exported by default")
}
