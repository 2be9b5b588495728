package json

import "bytes"

// TrimComments removes // and /* */ comments outside of string literals, line breaks are kept
func TrimComments(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	const (
		code = iota
		str
		line
		block
	)

	state := code
	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case str:
			out.WriteByte(c)
			if c == '\\' && next != 0 {
				out.WriteByte(next)
				i++
			} else if c == '"' {
				state = code
			}

		case line:
			if c == '\n' || c == '\r' {
				out.WriteByte(c)
				state = code
			}

		case block:
			if c == '*' && next == '/' {
				i++
				state = code
			}

		default:
			switch {
			case c == '"':
				out.WriteByte(c)
				state = str
			case c == '/' && next == '/':
				i++
				state = line
			case c == '/' && next == '*':
				i++
				state = block
			default:
				out.WriteByte(c)
			}
		}
	}

	return out.Bytes()
}
