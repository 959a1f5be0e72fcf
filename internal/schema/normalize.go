package schema

import (
	"fmt"
	"strings"
)

// Placeholder texts used when a schema is built without a name.
const (
	PlaceholderAppName     = "Yeni Uygulama"
	PlaceholderDescription = "Yapay zeka asistanına ne yapmak istediğini yazarak başla."
)

// Initial returns the schema shown by an empty builder.
func Initial() AppSchema {
	return AppSchema{
		AppName:     PlaceholderAppName,
		Description: PlaceholderDescription,
		Elements: []Element{
			{ID: "1", Type: TypeHeading, Label: "Başlamaya Hazırız!"},
			{
				ID:      "2",
				Type:    TypeCard,
				Label:   "Bir Prompt Girin",
				Content: `Sol taraftaki panelden "Örn: Bir restoran yönetim sistemi yap" gibi bir talimat verin.`,
			},
		},
	}
}

// Normalize returns a copy of s in which every element id is non-empty and
// unique. Empty ids become "el-<index>"; repeated ids get a "-<n>" suffix.
// The input is not modified.
func Normalize(s AppSchema) AppSchema {
	out := AppSchema{
		AppName:     s.AppName,
		Description: s.Description,
		Elements:    make([]Element, len(s.Elements)),
	}
	if strings.TrimSpace(out.AppName) == "" {
		out.AppName = PlaceholderAppName
	}

	reserved := make(map[string]bool, len(s.Elements))
	for _, el := range s.Elements {
		if id := strings.TrimSpace(el.ID); id != "" {
			reserved[id] = true
		}
	}
	used := make(map[string]bool, len(s.Elements))
	for i, el := range s.Elements {
		id := strings.TrimSpace(el.ID)
		generated := id == ""
		if generated {
			id = fmt.Sprintf("el-%d", i+1)
		}
		if used[id] || generated && reserved[id] {
			id = uniqueID(id, used, reserved)
		}
		used[id] = true
		el.ID = id
		out.Elements[i] = el
	}
	return out
}

func uniqueID(base string, used, reserved map[string]bool) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !used[candidate] && !reserved[candidate] {
			return candidate
		}
	}
}

// DuplicateIDs reports ids that occur more than once in s, in first-seen order.
func DuplicateIDs(s AppSchema) []string {
	counts := make(map[string]int, len(s.Elements))
	var dups []string
	for _, el := range s.Elements {
		counts[el.ID]++
		if counts[el.ID] == 2 {
			dups = append(dups, el.ID)
		}
	}
	return dups
}
