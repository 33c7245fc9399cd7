// Package errors provides classified errors for mdrender.
//
// An error carries a category, a severity and context. The category picks
// the HTTP status and exit code that HTTPErrorAdapter and CLIErrorAdapter
// report; the severity picks the log level.
//
// The scanners never fail on malformed markup, so most errors describe
// setup problems (bad option sets, renderers with an invalid handler shape)
// or the surrounding tooling (files, config, HTTP).
package errors
