package shell

import (
	"sort"
	"strings"
)

const invalidArgs = "Invalid arguments. Type help [<command>] for usage.\n"

// alphabetize returns the help table's indices sorted by name, comparing raw
// bytes. It returns nil for an empty table, and help then lists entries in
// registration order.
func alphabetize(help []HelpEntry) []int {
	if len(help) == 0 {
		return nil
	}
	order := make([]int, len(help))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return help[order[a]].Name < help[order[b]].Name
	})
	return order
}

func cmdHelp(s *Shell, args []string) {
	if len(args) > 2 {
		s.printf(invalidArgs)
		return
	}
	if len(args) == 1 {
		s.printf("Shell commands:\n")
		for i := range s.help {
			idx := i
			if s.helpOrder != nil {
				idx = s.helpOrder[i]
			}
			if h := s.help[idx]; h.Summary != "" {
				s.printf("  %-10s - %s\n", h.Name, h.Summary)
			}
		}
		s.printf("For more information use 'help <command>'.\n")
		return
	}

	if h, ok := s.lookupHelp(args[1]); ok {
		s.printf("%s - %s\n", h.Name, h.Summary)
		s.printf("%s\n", strings.TrimRight("Usage: "+h.Name+" "+h.Usage, " \n"))
		return
	}
	s.printf("Unknown command '%s'.\n", args[1])
}

// lookupHelp finds the entry for name in registration order. An alias
// resolves to the entry it stands for.
func (s *Shell) lookupHelp(name string) (HelpEntry, bool) {
	for _, h := range s.help {
		if h.Name != name {
			continue
		}
		if h.AliasOf != "" && h.AliasOf != name {
			return s.lookupHelp(h.AliasOf)
		}
		if h.Summary != "" {
			return h, true
		}
	}
	return HelpEntry{}, false
}
