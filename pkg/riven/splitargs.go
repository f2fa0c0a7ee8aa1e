package riven

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/magicargs"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

// namedArg is a name=value pair repeated on every generated call.
type namedArg struct {
	name  string
	value string
}

// callSet is the material for a run of generated template calls.
type callSet struct {
	template   string
	nargs      int
	values     []string
	named      []namedArg
	allowEmpty bool
}

// SplitArgs calls a template once for every n values:
// {{#splitargs:Template|n|a|b|c|d}} gives {{Template|a|b}}{{Template|c|d}}
// for n=2. Named arguments are passed to every call. The values may also come
// from explode=list, split on separator= or delimiter= (a comma by default), or, when none
// are given, from the arguments of the calling template. An n of 0 passes all
// values to a single call.
//
// The older form {{#splitargs:list|separator|Template|n}} is still accepted.
func SplitArgs(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args,
		magicargs.Debug, magicargs.If, magicargs.IfNot,
		magicargs.Explode, magicargs.Separator, magicargs.Delimiter, magicargs.AllowEmpty)
	if len(values) == 0 || !magic.CheckIfs() {
		return host.Text("")
	}

	set := callSet{allowEmpty: magic.Bool(magicargs.AllowEmpty, false)}
	nargs := ""
	if len(values) > 1 {
		nargs = f.Expand(values[1], 0)
	}

	if len(values) > 3 && !isNumeric(nargs) {
		slog.Debug("legacy splitargs call", "separator", nargs)
		p.AddTrackingCategory(explodeArgsCategory)
		set = explodeSet(f, values, set.allowEmpty)
	} else {
		set.template = trim(f.Expand(values[0], 0))
		set.nargs = intval(nargs)

		var rest []preprocessor.Node
		if len(values) > 2 {
			rest = values[2:]
		}
		if magic.Has(magicargs.Explode) {
			separator := magic.Get(magicargs.Separator, magic.Get(magicargs.Delimiter, ","))
			set.values = splitList(magic.Get(magicargs.Explode, ""), separator)
		}
		for _, node := range rest {
			if name, value, ok := magicargs.KeyValue(f, node); ok {
				set.named = addNamed(set.named, name, value)
				continue
			}
			set.values = append(set.values, f.Expand(node, 0))
		}
		if len(set.values) == 0 {
			set.values = frameValues(f)
		}
	}

	text := set.render()
	if text == "" {
		return host.Text("")
	}
	return host.Result{
		Text:    text,
		NoParse: magic.CheckDebug(p.IsPreview()),
	}
}

// ExplodeArgs splits a list and calls a template once for every n items:
// {{#explodeargs:a,b,c,d|,|Template|2}}.
func ExplodeArgs(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args,
		magicargs.Debug, magicargs.If, magicargs.IfNot, magicargs.AllowEmpty)
	if len(values) < 3 || !magic.CheckIfs() {
		return host.Text("")
	}

	set := explodeSet(f, values, magic.Bool(magicargs.AllowEmpty, false))
	text := set.render()
	if text == "" {
		return host.Text("")
	}
	return host.Result{
		Text:    text,
		NoParse: magic.CheckDebug(p.IsPreview()),
	}
}

// explodeSet reads list|separator|Template|n.
func explodeSet(f host.Frame, values []preprocessor.Node, allowEmpty bool) callSet {
	return callSet{
		values:     splitList(f.Expand(values[0], 0), expandOptional(f, values, 1)),
		template:   trim(expandOptional(f, values, 2)),
		nargs:      intval(expandOptional(f, values, 3)),
		allowEmpty: allowEmpty,
	}
}

func splitList(list, separator string) []string {
	if separator == "" {
		return []string{list}
	}
	return strings.Split(list, separator)
}

// addNamed sets name to value, keeping the position of an earlier setting.
func addNamed(named []namedArg, name, value string) []namedArg {
	for i := range named {
		if named[i].name == name {
			named[i].value = value
			return named
		}
	}
	return append(named, namedArg{name: name, value: value})
}

// frameValues collects the positional arguments of the calling template,
// including those passed by number as in |3=x, ordered by position.
func frameValues(f host.Frame) []string {
	byPos := make(map[int]string)
	for pos, value := range f.NumberedArguments() {
		byPos[pos] = value
	}
	for name, value := range f.NamedArguments() {
		if pos := intval(name); pos > 0 {
			byPos[pos] = value
		}
	}

	positions := make([]int, 0, len(byPos))
	for pos := range byPos {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	values := make([]string, len(positions))
	for i, pos := range positions {
		values[i] = byPos[pos]
	}
	return values
}

// render writes the template calls. Calls whose values are all blank are
// left out unless allowEmpty is set.
func (s callSet) render() string {
	if len(s.values) == 0 {
		return ""
	}
	nargs := s.nargs
	if nargs <= 0 {
		nargs = len(s.values)
	}

	var sb strings.Builder
	for index := 0; index < len(s.values); index += nargs {
		call := make([]string, nargs)
		empty := true
		for i := range call {
			if index+i < len(s.values) {
				call[i] = s.values[index+i]
			}
			if trim(call[i]) != "" {
				empty = false
			}
		}
		if empty && !s.allowEmpty {
			continue
		}

		sb.WriteString("{{")
		sb.WriteString(s.template)
		for _, value := range call {
			sb.WriteString("|")
			sb.WriteString(value)
		}
		for _, arg := range s.named {
			sb.WriteString("|" + arg.name + "=" + arg.value)
		}
		sb.WriteString("}}")
	}
	return sb.String()
}
