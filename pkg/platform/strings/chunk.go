package strings

import "strings"

// ChunkLines splits text into chunks of at most limit characters, breaking
// only at line boundaries so no line is ever cut in half. A single line
// longer than the limit becomes its own oversized chunk.
//
// Chat transports cap message length (2000 characters on most), so report
// renderers pass their output through this before sending.
func ChunkLines(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder

	for _, line := range strings.Split(text, "\n") {
		needed := len(line)
		if b.Len() > 0 {
			needed++ // the joining newline
		}
		if b.Len() > 0 && b.Len()+needed > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
