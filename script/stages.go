package script

type binding int

const (
	bindNone binding = iota
	bindTop
	bindLiberty
)

type stage struct {
	command string
	args    []string
	bind    binding
}

// fixedStages runs after the module source is loaded. The bound value is
// appended after args.
var fixedStages = []stage{
	{command: "hierarchy", args: []string{"-check", "-top"}, bind: bindTop},
	{command: "proc"},
	{command: "opt"},
	{command: "fsm"},
	{command: "opt"},
	{command: "memory"},
	{command: "opt"},
	{command: "techmap"},
	{command: "opt"},
	{command: "dfflibmap", args: []string{"-liberty"}, bind: bindLiberty},
	{command: "opt_clean", args: []string{"-purge"}},
	{command: "stat", args: []string{"-liberty"}, bind: bindLiberty},
}

// Stages returns the elaboration and optimization directives for a top
// module.
func Stages(top, liberty string) []Directive {
	out := make([]Directive, 0, len(fixedStages))

	for _, s := range fixedStages {
		args := make([]string, 0, len(s.args)+1)
		args = append(args, s.args...)

		switch s.bind {
		case bindTop:
			args = append(args, top)
		case bindLiberty:
			args = append(args, liberty)
		}

		out = append(out, Directive{Command: s.command, Args: args})
	}

	return out
}
