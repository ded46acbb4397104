package rows

// Compare orders rows for a directory listing: directories before files,
// then names compared case-insensitively (ASCII folding only). Info rows
// compare equal to everything.
func Compare(a, b *Row) int {
	if a.IsInfo() || b.IsInfo() {
		return 0
	}
	if a.IsDir() && b.IsFile() {
		return -1
	}
	if a.IsFile() && b.IsDir() {
		return 1
	}
	return CompareFold(a.Text, b.Text)
}

// CompareFold compares two strings byte by byte after ASCII lower-casing.
func CompareFold(s1, s2 string) int {
	n := len(s1)
	if len(s2) < n {
		n = len(s2)
	}
	for i := 0; i < n; i++ {
		c1, c2 := lower(s1[i]), lower(s2[i])
		if c1 != c2 {
			return int(c1) - int(c2)
		}
	}
	return len(s1) - len(s2)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
