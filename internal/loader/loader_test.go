package loader

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/specialistvlad/pathwaygen/internal/hcl_adapter"
	"github.com/specialistvlad/pathwaygen/internal/model"
	"github.com/specialistvlad/pathwaygen/internal/yaml_adapter"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dataDir  string
	stepsDir string
	loader   *Loader
	logs     *bytes.Buffer
	ctx      context.Context
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	dataDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dataDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	logs := &bytes.Buffer{}
	stepsDir := filepath.Join(dataDir, "steps")
	return &fixture{
		dataDir:  dataDir,
		stepsDir: stepsDir,
		loader:   New(dataDir, stepsDir, hcl_adapter.NewDecoder(), yaml_adapter.NewDecoder()),
		logs:     logs,
		ctx:      ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(logs, nil))),
	}
}

func TestNew_DuplicateExtensionPanics(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() {
		New("data", "data/steps", hcl_adapter.NewDecoder(), hcl_adapter.NewDecoder())
	})
}

func TestExtensions_Order(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	require.Equal(t, []string{".hcl", ".yaml", ".yml"}, f.loader.Extensions())
}

func TestLoadPathway_Resolved(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t, map[string]string{
		"pathway.yml": "- intro\n- quiz1\n- intro\n",
	})

	// --- Act ---
	pathway, err := f.loader.LoadPathway(f.ctx, "")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"intro", "quiz1", "intro"}, pathway.Steps)
	require.Equal(t, filepath.Join(f.dataDir, "pathway.yml"), pathway.FSInformation.FilePath)
	require.Contains(t, f.logs.String(), "Loaded pathway order.")
	require.Contains(t, f.logs.String(), "more than once")
}

func TestLoadPathway_ExplicitPath(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"custom/order.hcl": `steps = ["a"]`,
	})
	pathway, err := f.loader.LoadPathway(f.ctx, filepath.Join(f.dataDir, "custom", "order.hcl"))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, pathway.Steps)
}

func TestLoadPathway_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.loader.LoadPathway(f.ctx, "")
		require.ErrorIs(t, err, ErrNotFound)
		require.Contains(t, err.Error(), filepath.Join(f.dataDir, "pathway.hcl"))
	})

	t.Run("missing explicit", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.loader.LoadPathway(f.ctx, filepath.Join(f.dataDir, "nope.hcl"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ambiguous", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"pathway.hcl":  `steps = []`,
			"pathway.yaml": "[]\n",
		})
		_, err := f.loader.LoadPathway(f.ctx, "")
		require.ErrorIs(t, err, ErrAmbiguous)
	})

	t.Run("unsupported format", func(t *testing.T) {
		f := newFixture(t, map[string]string{"pathway.json": `["a"]`})
		_, err := f.loader.LoadPathway(f.ctx, filepath.Join(f.dataDir, "pathway.json"))
		require.ErrorContains(t, err, `unsupported document format ".json"`)
	})

	t.Run("not a sequence", func(t *testing.T) {
		f := newFixture(t, map[string]string{"pathway.hcl": `steps = "intro"`})
		_, err := f.loader.LoadPathway(f.ctx, "")
		require.ErrorContains(t, err, "error loading pathway order from")
	})
}

func TestLoadStep(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f := newFixture(t, map[string]string{
		"steps/intro.hcl":        "type = \"lesson\"\ntitle = \"Intro\"\n",
		"steps/unit2/quiz1.yaml": "type: quiz\nquestions: []\n",
	})

	// --- Act ---
	intro, err := f.loader.LoadStep(f.ctx, "intro")
	require.NoError(t, err)
	quiz, err := f.loader.LoadStep(f.ctx, "unit2/quiz1")
	require.NoError(t, err)

	// --- Assert ---
	require.Equal(t, "lesson", intro.Type)
	require.Equal(t, []string{"type", "title"}, intro.Data.Keys())
	require.Equal(t, "quiz", quiz.Type)
	require.Equal(t, filepath.Join(f.stepsDir, "unit2", "quiz1.yaml"), quiz.FSInformation.FilePath)
}

func TestLoadStep_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"steps/notype.hcl":    `title = "No type"`,
		"steps/empty.yaml":    "{}\n",
		"steps/broken.hcl":    `type = `,
		"steps/twice.hcl":     `type = "lesson"`,
		"steps/twice.yml":     "type: lesson\n",
		"steps/numbered.yaml": "type: 3\n",
	})

	cases := map[string]struct {
		id      string
		target  error
		message string
	}{
		"missing":   {id: "ghost", target: ErrNotFound, message: filepath.Join(f.stepsDir, "ghost.hcl")},
		"no type":   {id: "notype", target: model.ErrMissingType, message: `step "notype"`},
		"empty":     {id: "empty", target: model.ErrMissingType, message: `step "empty"`},
		"numeric":   {id: "numbered", target: model.ErrMissingType, message: "got number"},
		"ambiguous": {id: "twice", target: ErrAmbiguous, message: "twice.yml"},
		"escaping":  {id: "../secrets", target: ErrInvalidID, message: `"../secrets"`},
		"absolute":  {id: "/etc/passwd", target: ErrInvalidID, message: `"/etc/passwd"`},
		"empty id":  {id: "", target: ErrInvalidID, message: `""`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.loader.LoadStep(f.ctx, tc.id)
			require.ErrorIs(t, err, tc.target)
			require.Contains(t, err.Error(), tc.message)
		})
	}

	t.Run("decode error carries id and path", func(t *testing.T) {
		_, err := f.loader.LoadStep(f.ctx, "broken")
		require.Error(t, err)
		require.Contains(t, err.Error(), `error loading step data for "broken" from `+filepath.Join(f.stepsDir, "broken.hcl"))
	})
}
