package registry

// CoreKinds returns the step kinds compiled into the binary.
func CoreKinds() []Kind {
	return []Kind{
		{
			Name:        "lesson",
			Description: "Reading material shown as a single page.",
			Required:    []Attribute{{Name: "title", Type: "string"}},
		},
		{
			Name:        "quiz",
			Description: "A list of questions checked in the browser.",
			Required:    []Attribute{{Name: "questions", Type: "array"}},
		},
		{
			Name:        "assignment",
			Description: "A task whose brief lives in the assignments tree.",
			Required: []Attribute{
				{Name: "title", Type: "string"},
				{Name: "document", Type: "string"},
			},
		},
	}
}
