package intentpass

import "github.com/mehulgecg/SwiftRewriter/pkg/merge"

// FileTypeMerging merges declaration units into their definition units.
// Report holds the outcome of the last Apply.
type FileTypeMerging struct {
	Options merge.Options
	Report  merge.Report
}

func (*FileTypeMerging) Name() string { return "FileTypeMerging" }

func (p *FileTypeMerging) Apply(ctx *Context) bool {
	opts := p.Options
	if opts.Aliases == nil {
		opts.Aliases = ctx.Aliases
	}
	p.Report = merge.Merge(ctx.Collection, opts)
	ctx.Log.Debug("declarations merged",
		"types", p.Report.MergedTypes,
		"members", p.Report.MergedMembers,
		"moved", p.Report.MovedIntentions,
		"files", p.Report.MergedFiles,
		"removed_files", p.Report.RemovedFiles,
		"distinct", p.Report.KeptDistinct)
	return p.Report.Changed()
}
