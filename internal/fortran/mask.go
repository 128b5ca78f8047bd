package fortran

// Mask returns a copy of source in which string-literal and comment
// contents are replaced with spaces, byte for byte. Text rules match
// against the masked copy so that patterns cannot false-positive inside
// strings or comments, while every byte offset still refers to the same
// position in the real source.
//
// The structural markers survive masking: quote characters keep their
// place, and the `!` that opens a comment is preserved so comment
// positions remain discoverable.
func Mask(source []byte) []byte {
	masked := make([]byte, len(source))
	copy(masked, source)

	var quote byte
	inComment := false
	for i := 0; i < len(masked); i++ {
		c := masked[i]
		switch {
		case c == '\n':
			quote = 0
			inComment = false
		case inComment:
			masked[i] = ' '
		case quote != 0:
			if c == quote {
				if i+1 < len(masked) && masked[i+1] == quote {
					masked[i] = ' '
					masked[i+1] = ' '
					i++
					continue
				}
				quote = 0
			} else if c != '\r' {
				masked[i] = ' '
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '!':
			inComment = true
		}
	}
	return masked
}
