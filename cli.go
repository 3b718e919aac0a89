package main

import (
	"os"

	"github.com/integrii/flaggy"
)

var (
	flagHelp        bool
	flagNoColor     bool
	flagNoClearClip bool
	flagNoIcons     bool
	flagVerbose     bool
	flagDir         string

	flagQuery      string
	flagURI        string
	flagID         string
	flagImportFile string
	flagExportFile string
)

var (
	versionCmd = flaggy.NewSubcommand("version")
	codesCmd   = flaggy.NewSubcommand("codes")
	addCmd     = flaggy.NewSubcommand("add")
	rmCmd      = flaggy.NewSubcommand("rm")
	importCmd  = flaggy.NewSubcommand("import")
	exportCmd  = flaggy.NewSubcommand("export")
)

func parseCli() {
	parser := flaggy.NewParser("rauthy")
	parser.Bool(&flagNoColor, "", "no-color", "Turn off color output")
	parser.Bool(&flagNoClearClip, "", "no-clear-clip", "Do not clear clipboard on exit")
	parser.Bool(&flagNoIcons, "", "no-icons", "Do not look up icons for new credentials")
	parser.Bool(&flagVerbose, "v", "verbose", "Log debug information to stderr")
	parser.Bool(&flagHelp, "h", "help", "Show help")
	parser.String(&flagDir, "d", "dir", "Directory holding the vault (can be set by $RAUTHY_DIR)")

	versionCmd.Description = "print version and exit"
	codesCmd.Description = "print current codes, optionally for a fuzzy query"
	codesCmd.AddPositionalValue(&flagQuery, "query", 1, false, "fuzzy search on credential ids")
	addCmd.Description = "add a credential from an otpauth uri"
	addCmd.AddPositionalValue(&flagURI, "uri", 1, true, "otpauth://totp/... uri")
	rmCmd.Description = "remove a credential by id"
	rmCmd.AddPositionalValue(&flagID, "id", 1, true, "exact credential id")
	importCmd.Description = "add every otpauth uri in a file, one per line"
	importCmd.AddPositionalValue(&flagImportFile, "file", 1, true, "file to import")
	exportCmd.Description = "write every credential as an otpauth uri"
	exportCmd.AddPositionalValue(&flagExportFile, "file", 1, true, "file to create")

	parser.AdditionalHelpAppend = "rauthy respects $RAUTHY_DIR, $RAUTHY_BRANDFETCH_CLIENT, $PINENTRY env vars\n$PINENTRY can be set to none to prevent it from using pinentry"

	parser.ShowHelpWithHFlag = false
	parser.ShowHelpOnUnexpected = false

	// Configure some bits about the lib
	parser.DisableShowVersionWithVersion()
	if err := parser.SetHelpTemplate(helpTemplate); err != nil {
		// This should never occur
		panic(err)
	}

	parser.AttachSubcommand(versionCmd, 1)
	parser.AttachSubcommand(codesCmd, 1)
	parser.AttachSubcommand(addCmd, 1)
	parser.AttachSubcommand(rmCmd, 1)
	parser.AttachSubcommand(importCmd, 1)
	parser.AttachSubcommand(exportCmd, 1)
	parser.Parse()

	if len(flagDir) == 0 {
		flagDir = os.Getenv("RAUTHY_DIR")
	}

	if flagHelp {
		parser.ShowHelp()
		os.Exit(0)
	}
}

var helpTemplate = `Usage:
  {{.CommandName}} [flags]{{if .Subcommands}} [command]{{end}}
{{- if .Subcommands}}

Commands:
  {{range .Subcommands -}}
  {{printf "%-8s" .LongName}} {{.Description}}
  {{end -}}
{{- end}}
{{- if .Positionals}}

Arguments:
  {{- range .Positionals}}
  {{printf "%-8s" .Name}} {{.Description}}
  {{- end -}}
{{- end}}
{{- if .Flags}}
Flags:
  {{- range .Flags}}
  {{if .ShortName}}-{{.ShortName}}{{if .LongName}}, {{else}}  {{end}}{{else}}    {{end}}{{printf "--%-15s" .LongName}}
  {{- if .Description}} {{.Description}}{{end}}
  {{- if and (.DefaultValue) (not (eq "false" .DefaultValue))}} ({{.DefaultValue}}){{end}}
  {{- end -}}
{{- end}}{{if .AppendMessage}}

{{.AppendMessage}}
{{- end}}
`
