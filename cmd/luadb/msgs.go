package luadb

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Convert Total War database tables to Lua scripts"
	MsgConvertShort     = "Convert sources to Lua scripts"
	MsgWatchShort       = "Convert, then convert again whenever sources change"
	MsgSchemaShort      = "Inspect table definitions"
	MsgSchemaCheckShort = "Validate a schema file and list its tables"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate the man page"
	MsgConfigShort      = "Inspect configuration"

	MsgConfigDefaultsShort = "Print the built-in defaults"
	MsgConfigDefaultsLong  = "Print the built-in configuration defaults as TOML. The output is a\nvalid luadb.toml and a starting point for a project config file."

	// Status messages
	MsgWatching     = "Watching for changes, press Ctrl-C to stop"
	MsgWatchStopped = "Stopped watching"
	MsgVersion      = "luadb version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrNoCommand   = "no command specified"
	MsgErrNoSchema    = "no schema file given: pass one or set schema.path"
	MsgErrBadFormat   = "invalid --format: %w"
	MsgErrGenManPage  = "failed to generate man page: %w"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun        = "Compute everything but write no files"
	MsgFlagConfig        = "Config file (default: ./luadb.toml or ./.luadb.toml)"
	MsgFlagFormat        = "Output format: auto, term, text or json"
	MsgFlagOut           = "Output directory"
	MsgFlagForce         = "Write into a non-empty output directory"
	MsgFlagBase          = "The sources are the base game, not a mod"
	MsgFlagCorePrefix    = "Prefix for core table files of a mod"
	MsgFlagScriptCheck   = "Only load the tables when this script exists"
	MsgFlagSchema        = "Schema file with the table definitions"
	MsgFlagLoadOrder     = "Load order file listing archives, first listed wins"
	MsgFlagDataDir       = "Directory the load order file's archives live in"
	MsgFlagJobs          = "Number of sources decoded in parallel"
	MsgFlagTransactional = "Write all files in one batch, rolled back on error"
	MsgFlagEscape        = "Escape quotes, backslashes and control characters in strings"
	MsgFlagReport        = "Write a run report to this file"
	MsgFlagReportFormat  = "Report format: yaml, toml, xml or json (default: from extension)"
	MsgFlagDebounce      = "Delay before re-converting after a change"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/convert-long.txt
	msgConvertLongRaw string
	MsgConvertLong    = strings.TrimSpace(msgConvertLongRaw)

	//go:embed msgs/convert-example.txt
	msgConvertExampleRaw string
	MsgConvertExample    = strings.TrimRight(msgConvertExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/schema-check-long.txt
	msgSchemaCheckLongRaw string
	MsgSchemaCheckLong    = strings.TrimSpace(msgSchemaCheckLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
