package notion

var categoryColors = map[string]string{
	"creative":  "blue",
	"academic":  "green",
	"business":  "orange",
	"technical": "gray",
}

var tagColors = map[string]string{
	"gpt":      "green",
	"writing":  "blue",
	"code":     "gray",
	"business": "orange",
	"academic": "red",
}

// RequiredSchema returns the properties a prompt database must declare.
func RequiredSchema(categories, tags []string) Schema {
	return Schema{
		PropContent:          {Kind: KindRichText},
		PropCategory:         {Kind: KindSelect, Options: options(categories, categoryColors)},
		PropTags:             {Kind: KindMultiSelect, Options: options(tags, tagColors)},
		PropCreatedAt:        {Kind: KindDate},
		PropContentPartCount: {Kind: KindNumber},
		PropPartIndex:        {Kind: KindNumber},
		PropParentPromptID:   {Kind: KindRichText},
		PropPartGeneration:   {Kind: KindNumber},
	}
}

// Missing returns the entries of required that have no property of the same
// name in existing.
func Missing(existing, required Schema) Schema {
	out := Schema{}
	for name, spec := range required {
		if _, ok := existing[name]; !ok {
			out[name] = spec
		}
	}
	return out
}

func options(names []string, colors map[string]string) []Option {
	out := make([]Option, 0, len(names))
	for _, name := range names {
		color, ok := colors[name]
		if !ok {
			color = "default"
		}
		out = append(out, Option{Name: name, Color: color})
	}
	return out
}
