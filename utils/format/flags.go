package format

import (
	"strings"

	"github.com/spf13/pflag"
)

// Flags binds the shared output options of a command.
type Flags struct {
	Format string
	Export string
}

// Register adds --format and --export to the given flag set.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Format, "format", Table, "output format: table, json or csv")
	fs.StringVar(&f.Export, "export", "", "write json/csv output to a file instead of stdout")
}

// Output writes d according to the bound flags.
func (f *Flags) Output(d Data) error {
	return Output(d, f.Format, f.Export)
}

// OutputRecords writes d like Output, except that a CSV export goes
// through the csv struct tags of records instead of the display cells,
// so exported files keep machine-readable values.
func (f *Flags) OutputRecords(d Data, records interface{}) error {
	if f.Export != "" && strings.EqualFold(f.Format, CSV) {
		return ExportCSV(f.Export, records)
	}
	return Output(d, f.Format, f.Export)
}
