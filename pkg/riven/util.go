package riven

import (
	"hash/fnv"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/magicargs"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

const trimChars = " \t\n\r\x00\x0b"

var numericRegex = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)

func trim(s string) string {
	return strings.Trim(s, trimChars)
}

// intval reads the integer at the start of s, after any leading whitespace.
// Text without one, or out of range, reads as 0.
func intval(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// isNumeric reports whether s is a decimal number, allowing surrounding
// whitespace, a sign, a fraction and an exponent.
func isNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// unescapeC resolves C-style backslash escapes. Unknown escapes yield the
// escaped character.
func unescapeC(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch c = s[i]; c {
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'x':
			end := i + 1
			for end < len(s) && end < i+3 && isHex(s[end]) {
				end++
			}
			if end == i+1 {
				sb.WriteByte('x')
				continue
			}
			n, _ := strconv.ParseUint(s[i+1:end], 16, 8)
			sb.WriteByte(byte(n))
			i = end - 1
		default:
			if c >= '0' && c <= '7' {
				end := i
				for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
					end++
				}
				n, _ := strconv.ParseUint(s[i:end], 8, 16)
				sb.WriteByte(byte(n))
				i = end - 1
				continue
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// expandAll expands each node in f.
func expandAll(f host.Frame, nodes []preprocessor.Node) []string {
	values := make([]string, len(nodes))
	for i, node := range nodes {
		values[i] = f.Expand(node, 0)
	}
	return values
}

// expandOptional expands the node at index i, or returns "" if there is none.
func expandOptional(f host.Frame, nodes []preprocessor.Node, i int) string {
	if i < 0 || i >= len(nodes) || nodes[i] == nil {
		return ""
	}
	return f.Expand(nodes[i], 0)
}

// randSource returns a generator of its own for a seeded call, so the seed
// affects nothing else, and the render's generator otherwise.
func randSource(p host.Parser, magic magicargs.Args) *rand.Rand {
	if !magic.Has(magicargs.Seed) {
		return p.Rand()
	}
	seed := seedValue(magic.Get(magicargs.Seed, ""))
	return rand.New(rand.NewPCG(seed, seed))
}

// seedValue uses a numeric seed as is and hashes anything else.
func seedValue(s string) uint64 {
	s = trim(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return uint64(n)
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// titleExists reports whether title names something that exists, consulting
// the link cache before doing an expensive lookup.
func titleExists(p host.Parser, title *host.Title) bool {
	switch title.Namespace {
	case host.NSMedia:
		if !p.IncrementExpensiveFunctionCount() {
			return false
		}
		file := p.FindFile(title)
		if file == nil {
			return false
		}
		p.AddImage(file)
		return file.Exists
	case host.NSSpecial:
		return p.SpecialPageExists(title.DBKey())
	}

	if title.IsExternal() {
		return false
	}
	key := title.PrefixedDBKey()
	if p.GoodLinkID(key) != 0 {
		return true
	}
	return !p.IsBadLink(key) && p.IncrementExpensiveFunctionCount() && p.PageExists(title)
}
