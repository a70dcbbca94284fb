package assemble

// DefaultChunkSize bounds one synthesis request when the job carries no
// explicit size.
const DefaultChunkSize = 500

// Chunk splits the narration into fixed-size contiguous rune chunks in
// original order. Boundaries may fall mid-word; that approximation is part
// of the contract, callers must not re-join or re-split.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
