package transform

import "strings"

// Block is one header line plus the entry lines that follow it in a
// keybinding file.
type Block struct {
	Header  string
	Entries []string
}

// ParseBlocks groups lines into ordered blocks. A line starting with marker
// opens a block; subsequent non-empty lines belong to the last opened
// block. A repeated header appends to its first occurrence, so block order
// is first-seen order. Lines before the first header are discarded, as are
// blank lines.
func ParseBlocks(lines []string, marker string) []Block {
	var blocks []Block
	index := make(map[string]int)
	last := -1
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, marker) {
			if i, ok := index[line]; ok {
				last = i
				continue
			}
			blocks = append(blocks, Block{Header: line})
			last = len(blocks) - 1
			index[line] = last
			continue
		}
		if last >= 0 {
			blocks[last].Entries = append(blocks[last].Entries, line)
		}
	}
	return blocks
}

// MergeBlocks emits the baseline blocks in baseline order, replacing each
// block's entries with the override's entries when the override defines the
// same header. Headers only the override knows are never emitted.
func MergeBlocks(base, override []Block) []string {
	repl := make(map[string][]string, len(override))
	for _, b := range override {
		repl[b.Header] = b.Entries
	}
	var out []string
	for _, b := range base {
		out = append(out, b.Header)
		if entries, ok := repl[b.Header]; ok {
			out = append(out, entries...)
		} else {
			out = append(out, b.Entries...)
		}
	}
	return out
}
