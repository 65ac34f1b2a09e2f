package yaml_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pathwaygen/internal/docval"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecodePathway_Forms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"sequence": "- intro\n- quiz1\n",
		"mapping":  "title: Intro to Go\nsteps:\n  - intro\n  - quiz1\n",
		"flow":     "steps: [intro, quiz1]\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeDoc(t, "pathway.yaml", src)
			steps, err := NewDecoder().DecodePathway(context.Background(), path)
			require.NoError(t, err)
			require.Equal(t, []string{"intro", "quiz1"}, steps)
		})
	}
}

func TestDecodePathway_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		src  string
		want string
	}{
		"scalar":          {src: "intro\n", want: "expected a sequence"},
		"missing steps":   {src: "title: x\n", want: `missing "steps"`},
		"steps not list":  {src: "steps: intro\n", want: "must be a sequence"},
		"non-string item": {src: "- intro\n- 3\n", want: "element 1 must be a string"},
		"nested list":     {src: "- [a, b]\n", want: "element 0 must be a string"},
		"empty":           {src: "", want: "document is empty"},
		"syntax":          {src: "steps: [intro\n", want: "failed to parse YAML file"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeDoc(t, "pathway.yaml", tc.src)
			_, err := NewDecoder().DecodePathway(context.Background(), path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeStep_KeepsAuthoredOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeDoc(t, "intro.yaml", `
type: lesson
title: Intro
published: 2024-01-02
defaults: &defaults
  minutes: 5
  optional: false
sections:
  - heading: Welcome
    <<: *defaults
  - heading: Setup
    minutes: 7.5
    notes: ~
`)

	// --- Act ---
	obj, err := NewDecoder().DecodeStep(context.Background(), "intro", path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"type", "title", "published", "defaults", "sections"}, obj.Keys())

	published, ok := obj.String("published")
	require.True(t, ok, "timestamps are published as authored text")
	require.Equal(t, "2024-01-02", published)

	sections, _ := obj.Get("sections")
	second := sections.([]any)[1].(*docval.Object)
	require.Equal(t, []string{"heading", "minutes", "notes"}, second.Keys())

	out, err := docval.MarshalIndent(second)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"heading\": \"Setup\",\n  \"minutes\": 7.5,\n  \"notes\": null\n}", string(out))

	first := sections.([]any)[0].(*docval.Object)
	require.Equal(t, []string{"heading", "minutes", "optional"}, first.Keys(), "merged members take the position of the merge key")

	defaults, _ := obj.Get("defaults")
	minutes, _ := defaults.(*docval.Object).Get("minutes")
	require.Equal(t, 5, minutes)
}

func TestDecodeStep_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		src  string
		want string
	}{
		"sequence root": {src: "- a\n", want: "must be a mapping"},
		"complex key":   {src: "? [a, b]\n: 1\n", want: "mapping keys must be scalars"},
		"empty":         {src: "", want: "document is empty"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeDoc(t, "broken.yaml", tc.src)
			_, err := NewDecoder().DecodeStep(context.Background(), "broken", path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecodeStep_MergeKeys(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeDoc(t, "intro.yaml", `
type: lesson
base: &base
  title: Intro
  minutes: 5
extra: &extra
  minutes: 9
  level: beginner
meta:
  <<: *base
  extra: 1
override:
  minutes: 10
  <<: *base
many:
  <<: [*extra, *base]
quoted:
  "<<": literal
`)

	// --- Act ---
	obj, err := NewDecoder().DecodeStep(context.Background(), "intro", path)

	// --- Assert ---
	require.NoError(t, err)
	member := func(key string) string {
		t.Helper()
		v, ok := obj.Get(key)
		require.True(t, ok, "missing %q", key)
		out, err := docval.MarshalIndent(v)
		require.NoError(t, err)
		return string(out)
	}
	require.Equal(t, "{\n  \"title\": \"Intro\",\n  \"minutes\": 5,\n  \"extra\": 1\n}", member("meta"))
	require.Equal(t, "{\n  \"minutes\": 10,\n  \"title\": \"Intro\"\n}", member("override"), "explicit keys win over merged ones")
	require.Equal(t, "{\n  \"minutes\": 9,\n  \"level\": \"beginner\",\n  \"title\": \"Intro\"\n}", member("many"), "the first merged mapping wins")
	require.Equal(t, "{\n  \"<<\": \"literal\"\n}", member("quoted"), "a quoted key is an ordinary key")
}

func TestDecodeStep_RejectsValuesJSONCannotHold(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		src  string
		want string
	}{
		"infinity":          {src: "type: lesson\nscore: .inf\n", want: ".inf cannot be represented in JSON"},
		"negative infinity": {src: "type: lesson\nscore: -.Inf\n", want: "-.Inf cannot be represented in JSON"},
		"not a number":      {src: "type: lesson\nitems:\n  - .nan\n", want: ".nan cannot be represented in JSON"},
		"merge of scalar":   {src: "type: lesson\nmeta:\n  <<: plain\n", want: "merge key needs a mapping"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeDoc(t, "broken.yaml", tc.src)
			_, err := NewDecoder().DecodeStep(context.Background(), "broken", path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
