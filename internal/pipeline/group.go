package pipeline

import "duebot/internal/directory"

// Grouped holds records per recipient key.
// Keys keeps first-seen order; records keep source row order.
type Grouped struct {
	Keys  []string
	ByKey map[string][]Record
}

func (g Grouped) Len() int { return len(g.Keys) }

func (g Grouped) Records(key string) []Record {
	if g.ByKey == nil {
		return nil
	}
	return g.ByKey[key]
}

// Group partitions records by handler key (trimmed, lowercased).
// Records with a blank handler are dropped. HandleBy is cleared on the
// grouped copies; callers must not rely on it after grouping.
func Group(records []Record) Grouped {
	g := Grouped{ByKey: map[string][]Record{}}
	for _, r := range records {
		key := directory.Key(r.HandleBy)
		if key == "" {
			continue
		}
		cp := r
		cp.HandleBy = ""
		if _, seen := g.ByKey[key]; !seen {
			g.Keys = append(g.Keys, key)
		}
		g.ByKey[key] = append(g.ByKey[key], cp)
	}
	return g
}
