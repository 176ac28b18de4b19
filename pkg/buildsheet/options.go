// Package buildsheet extracts structured build-request data from
// spreadsheet workbooks.
package buildsheet

import "github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/parser"

// Options configures extraction behavior.
type Options struct {
	// HeaderScanRows bounds the table-header search window. Zero means
	// the parser default.
	HeaderScanRows int
	// MaxTableRows bounds the body of a single detected table. Zero means
	// the parser default.
	MaxTableRows int
	// ScanMacros specifies whether to record the opaque VBA blob
	// descriptor. If nil, macros are scanned.
	ScanMacros *bool
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldScanMacros returns whether the macro descriptor is recorded.
func (o Options) ShouldScanMacros() bool {
	if o.ScanMacros != nil {
		return *o.ScanMacros
	}
	return true
}

func (o Options) tableParams() parser.TableDetectionParams {
	p := parser.DefaultTableParams()
	if o.HeaderScanRows > 0 {
		p.HeaderScanRows = o.HeaderScanRows
	}
	if o.MaxTableRows > 0 {
		p.MaxTableRows = o.MaxTableRows
	}
	return p
}
