package strength

import "unicode"

// qwertyNeighbors maps every lowercase letter and digit of a QWERTY layout to
// the keys physically next to it (horizontal and diagonal). Symbol keys are
// not part of the table.
var qwertyNeighbors = map[rune]string{
	'1': "2q",
	'2': "13qw",
	'3': "24ew",
	'4': "35er",
	'5': "46rt",
	'6': "57ty",
	'7': "68uy",
	'8': "79iu",
	'9': "08io",
	'0': "9op",
	'q': "12aw",
	'w': "23aeqs",
	'e': "34drsw",
	'r': "45deft",
	't': "56fgry",
	'y': "67ghtu",
	'u': "78hijy",
	'i': "89jkou",
	'o': "09iklp",
	'p': "0lo",
	'a': "qswz",
	's': "adewxz",
	'd': "cefrsx",
	'f': "cdgrtv",
	'g': "bfhtvy",
	'h': "bgjnuy",
	'j': "hikmnu",
	'k': "ijlmo",
	'l': "kop",
	'z': "asx",
	'x': "cdsz",
	'c': "dfvx",
	'v': "bcfg",
	'b': "ghnv",
	'n': "bhjm",
	'm': "jkn",
}

// adjacency is the lookup form of qwertyNeighbors, built once.
var adjacency = buildAdjacency(qwertyNeighbors)

func buildAdjacency(table map[rune]string) map[rune]map[rune]struct{} {
	out := make(map[rune]map[rune]struct{}, len(table))
	for key, neighbors := range table {
		set := make(map[rune]struct{}, len(neighbors))
		for _, n := range neighbors {
			set[n] = struct{}{}
		}
		out[key] = set
	}

	return out
}

// adjacent reports whether next sits beside prev on the keyboard. Only prev is
// lowercased, so an uppercase next never matches.
func adjacent(prev, next rune) bool {
	set, ok := adjacency[unicode.ToLower(prev)]
	if !ok {
		return false
	}
	_, ok = set[next]
	return ok
}
