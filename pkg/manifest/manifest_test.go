package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cargodead/pkg/deps"
	"github.com/matzehuels/cargodead/pkg/errors"
)

func TestParseRejectsInvalidTOML(t *testing.T) {
	_, err := Parse([]byte("[dependencies\nserde = 1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidManifest))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "Cargo.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		table string
		key   string
		want  string
		ok    bool
	}{
		{
			name:  "plain key",
			src:   "[dependencies]\nserde = \"1\"\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "inline table value",
			src:   "[dependencies]\ntokio = { version = \"1\", features = [\"full\"] }\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "tokio",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "multi-line value",
			src:   "[dependencies]\ntokio.version = \"1\"\ntokio.features = [\n  \"rt\",\n  \"macros\",\n]\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "tokio",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "quoted key",
			src:   "[dependencies]\n\"serde\" = \"1\"\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "dotted keys",
			src:   "[dependencies]\nserde.version = \"1\"\nserde.features = [\"derive\"]\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "root dotted key",
			src:   "dependencies.serde = \"1\"\ndependencies.log = \"0.4\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "dependencies.log = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "section",
			src:   "[dependencies]\nlog = \"0.4\"\n\n[dependencies.serde]\nversion = \"1\"\nfeatures = [\"derive\"]\n\n[features]\ndefault = []\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n\n\n[features]\ndefault = []\n",
			ok:    true,
		},
		{
			name:  "attached comment",
			src:   "[dependencies]\n# json support\nserde_json = \"1\"\n\n# logging\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "serde_json",
			want:  "[dependencies]\n\n# logging\nlog = \"0.4\"\n",
			ok:    true,
		},
		{
			name:  "trailing comment kept with next section",
			src:   "[dependencies.serde]\nversion = \"1\"\n# build tooling\n[build-dependencies]\ncc = \"1\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "# build tooling\n[build-dependencies]\ncc = \"1\"\n",
			ok:    true,
		},
		{
			name:  "trailing comment goes with the entry",
			src:   "[dependencies]\nserde = \"1\" # json\nlog = \"0.4\" # logging\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\" # logging\n",
			ok:    true,
		},
		{
			name:  "comment after multi-line array",
			src:   "[dependencies]\ntokio.features = [\n  \"rt\", # runtime\n  \"macros\",\n] # trailing\n\n[features]\n",
			table: "dependencies",
			key:   "tokio",
			want:  "[dependencies]\n\n[features]\n",
			ok:    true,
		},
		{
			name:  "missing key",
			src:   "[dependencies]\nlog = \"0.4\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n",
		},
		{
			name:  "missing table",
			src:   "[package]\nname = \"a\"\n",
			table: "dev-dependencies",
			key:   "serde",
			want:  "[package]\nname = \"a\"\n",
		},
		{
			name:  "non-table value",
			src:   "dependencies = \"serde\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "dependencies = \"serde\"\n",
		},
		{
			name:  "root inline table",
			src:   "dependencies = { serde = \"1\" }\n",
			table: "dependencies",
			key:   "serde",
			want:  "dependencies = { serde = \"1\" }\n",
		},
		{
			name:  "array of tables",
			src:   "[[dependencies]]\nserde = \"1\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[[dependencies]]\nserde = \"1\"\n",
		},
		{
			name:  "other kinds untouched",
			src:   "[dependencies]\nserde = \"1\"\n\n[dev-dependencies]\nserde = \"1\"\n",
			table: "dev-dependencies",
			key:   "serde",
			want:  "[dependencies]\nserde = \"1\"\n\n[dev-dependencies]\n",
			ok:    true,
		},
		{
			name:  "target tables untouched",
			src:   "[dependencies]\nlibc = \"0.2\"\n\n[target.'cfg(unix)'.dependencies]\nlibc = \"0.2\"\n",
			table: "dependencies",
			key:   "libc",
			want:  "[dependencies]\n\n[target.'cfg(unix)'.dependencies]\nlibc = \"0.2\"\n",
			ok:    true,
		},
		{
			name:  "prefix names are distinct",
			src:   "[dependencies]\nserde = \"1\"\nserde_json = \"1\"\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nserde_json = \"1\"\n",
			ok:    true,
		},
		{
			name:  "crlf line endings",
			src:   "[dependencies]\r\nserde = \"1\"\r\nlog = \"0.4\"\r\n",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\r\nlog = \"0.4\"\r\n",
			ok:    true,
		},
		{
			name:  "no trailing newline",
			src:   "[dependencies]\nlog = \"0.4\"\nserde = \"1\"",
			table: "dependencies",
			key:   "serde",
			want:  "[dependencies]\nlog = \"0.4\"\n",
			ok:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, doc.Remove(tt.table, tt.key))
			assert.Equal(t, tt.want, string(doc.Bytes()))
		})
	}
}

func TestHasTable(t *testing.T) {
	doc, err := Parse([]byte("[package]\nname = \"a\"\n\n[dependencies.serde]\nversion = \"1\"\n"))
	require.NoError(t, err)
	assert.True(t, doc.HasTable("dependencies"))
	assert.True(t, doc.HasTable("package"))
	assert.False(t, doc.HasTable("dev-dependencies"))
}

const scenario = `[package]
name = "demo"
version = "0.1.0"

[dependencies]
serde = { version = "1", features = ["derive"] }
serde_json = "1"

[dev-dependencies]
once_cell = "1"
`

func TestApplyScenario(t *testing.T) {
	doc, err := Parse([]byte(scenario))
	require.NoError(t, err)

	n := doc.Apply(deps.Unused{
		deps.Regular:     {"serde_json"},
		deps.Development: {"once_cell"},
	})
	assert.Equal(t, 2, n)

	want := `[package]
name = "demo"
version = "0.1.0"

[dependencies]
serde = { version = "1", features = ["derive"] }

[dev-dependencies]
`
	assert.Equal(t, want, string(doc.Bytes()))

	// A second pass finds nothing left to remove.
	assert.Equal(t, 0, doc.Apply(deps.Unused{deps.Regular: {"serde_json"}}))
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestFix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0600))

	n, err := Fix(path, deps.Unused{deps.Regular: {"serde_json"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "serde_json")
	assert.Contains(t, string(data), "once_cell")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFixWithoutRemovalDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	n, err := Fix(path, deps.Unused{deps.Regular: {"missing"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "manifest was rewritten")
}

func TestFixInvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[dependencies\n"), 0644))

	_, err := Fix(path, deps.Unused{deps.Regular: {"serde"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidManifest))
}

func TestSaveWriteFailure(t *testing.T) {
	doc, err := Parse([]byte(scenario))
	require.NoError(t, err)

	// A path below a regular file cannot be created, even by root.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err = doc.Save(filepath.Join(blocker, "Cargo.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeWriteFailed))
}

func TestFixReadOnlyManifest(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0444))

	_, err := Fix(path, deps.Unused{deps.Regular: {"serde_json"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeWriteFailed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scenario, string(data))
}

func TestLexLineKinds(t *testing.T) {
	src := "# top\n\n[dependencies] # deps\r\nserde = \"1\"\r\n\r\n  [[bin]]\nname = \"x\""
	lines, err := lex([]byte(src))
	require.NoError(t, err)

	var kinds []lineKind
	var rebuilt []byte
	for _, ln := range lines {
		kinds = append(kinds, ln.kind)
		rebuilt = append(rebuilt, src[ln.start:ln.end]...)
	}
	assert.Equal(t, []lineKind{
		lineComment, lineBlank, lineTable, lineKeyValue, lineBlank, lineArrayTable, lineKeyValue,
	}, kinds)
	assert.Equal(t, src, string(rebuilt), "lines must cover the document exactly")
	assert.Equal(t, []string{"bin", "name"}, lines[len(lines)-1].path)
}

func TestLexMultilineStrings(t *testing.T) {
	src := []byte("[package]\ndescription = \"\"\"\nsee [dependencies]\nserde = 1\n\"\"\"\n[dependencies]\nserde = '1'\n")
	lines, err := lex(src)
	require.NoError(t, err)

	var paths [][]string
	for _, ln := range lines {
		if ln.kind == lineKeyValue || ln.kind == lineTable {
			paths = append(paths, ln.path)
		}
	}
	assert.Equal(t, [][]string{
		{"package"},
		{"package", "description"},
		{"dependencies"},
		{"dependencies", "serde"},
	}, paths)
}
