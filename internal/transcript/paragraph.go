package transcript

import "github.com/verte-zerg/tuicast/internal/model"

// DefaultParagraphSize is the number of words rendered per paragraph.
const DefaultParagraphSize = 40

// GroupParagraphs partitions count words into consecutive windows of size words.
func GroupParagraphs(count, size int) []model.Paragraph {
	if size <= 0 {
		size = DefaultParagraphSize
	}
	if count <= 0 {
		return nil
	}
	out := make([]model.Paragraph, 0, (count+size-1)/size)
	for start := 0; start < count; start += size {
		end := start + size
		if end > count {
			end = count
		}
		out = append(out, model.Paragraph{Start: start, End: end})
	}
	return out
}
