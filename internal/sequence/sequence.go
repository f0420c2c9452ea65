package sequence

var complementTable [256]byte

func init() {
	pairs := []struct{ a, b byte }{
		{'A', 'T'}, {'C', 'G'}, {'a', 't'}, {'c', 'g'},
	}
	for _, p := range pairs {
		complementTable[p.a] = p.b
		complementTable[p.b] = p.a
	}
	complementTable['N'] = 'N'
	complementTable['n'] = 'n'
}

// Complement returns the nucleotide complement of seq. Case is
// preserved and characters without a complement (including N) are left
// unchanged.
func Complement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c := complementTable[seq[i]]
		if c == 0 {
			c = seq[i]
		}
		out[i] = c
	}
	return string(out)
}

// ReverseComplement returns the reverse complement of seq.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complementTable[seq[n-1-i]]
		if c == 0 {
			c = seq[n-1-i]
		}
		out[i] = c
	}
	return string(out)
}
