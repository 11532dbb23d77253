package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/annograph/internal/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCollection(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"README.sp.strA.gnm1.ann1.ABCD.yml": "identifier: sp.strA.gnm1.ann1.ABCD\n",
		"sp.strA.gnm1.ann1.ABCD.gene_models_main.gff3": "chr1\tsrc\tgene\t1\t1000\t.\t+\t.\tID=sp.strA.gnm1.ann1.G1\n" +
			"chr1\tsrc\tmRNA\t1\t1000\t.\t+\t.\tID=sp.strA.gnm1.ann1.G1.1;Parent=sp.strA.gnm1.ann1.G1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "annograph version dev")
}

func TestLoad_DryRun(t *testing.T) {
	out, err := execute(t, "load", "--dry-run", writeCollection(t))
	require.NoError(t, err)
	assert.Contains(t, out, "sp.strA.gnm1.ann1.ABCD")
	assert.Regexp(t, `genes\s+1`, out)
	assert.Regexp(t, `transcripts\s+1`, out)
}

func TestLoad_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")
	_, err := execute(t, "load", "--sink", "sqlite", "--db", dbPath, writeCollection(t))
	require.NoError(t, err)

	s, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count("transcripts", "sp.strA.gnm1.ann1.ABCD")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoad_UsageErrors(t *testing.T) {
	_, err := execute(t, "load")
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t, "load", "--sink", "postgres", writeCollection(t))
	assert.ErrorIs(t, err, errUsage)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := execute(t, "load", "--dry-run", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestLoad_PrefixesFromEnv(t *testing.T) {
	t.Setenv("ANNOGRAPH_REGIONS_CHROMOSOME_PREFIXES", "Gm,chr")
	out, err := execute(t, "load", "--dry-run", writeCollection(t))
	require.NoError(t, err)
	assert.Regexp(t, `genes\s+1`, out)
}

func TestListSetting(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"env string", "Gm, chr", []string{"Gm", "chr"}},
		{"single", "scaffold", []string{"scaffold"}},
		{"config list", []string{"scaffold", "contig"}, []string{"scaffold", "contig"}},
		{"unset", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			if tt.value != nil {
				viper.Set("regions.chromosome_prefixes", tt.value)
			}
			assert.Equal(t, tt.want, listSetting("regions.chromosome_prefixes"))
		})
	}
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	out := run("config", "set", "sink.type", "sqlite")
	assert.Contains(t, out, filepath.Join(home, ".annograph.yaml"))
	assert.FileExists(t, filepath.Join(home, ".annograph.yaml"))

	viper.Reset()
	assert.Equal(t, "sqlite\n", run("config", "get", "sink.type"))

	viper.Reset()
	run("config", "set", "regions.supercontig_prefixes", "scaffold, contig")
	viper.Reset()
	assert.Equal(t, "[scaffold contig]\n", run("config", "get", "regions.supercontig_prefixes"))
}

func TestRunExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, ExitUsage, run([]string{"load"}))
	viper.Reset()
	assert.Equal(t, ExitError, run([]string{"load", "--dry-run", filepath.Join(t.TempDir(), "missing")}))
}
