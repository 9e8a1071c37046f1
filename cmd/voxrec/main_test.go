package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestVersion(t *testing.T) {
	out, _, code := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "voxrec "+version+"\n", out)
}

func TestUsage(t *testing.T) {
	_, errOut, code := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Commands:")

	_, errOut, code = runCLI(t, "train")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "train"`)
}

func TestWriteCountInspectBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.tfrecord")

	out, errOut, code := runCLI(t, "write", "-data", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+"\t10\n", out)
	assert.Contains(t, errOut, "wrote records")

	out, errOut, code = runCLI(t, "count", "-data", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+"\t10\n", out)

	out, errOut, code = runCLI(t, "inspect", "-data", path, "-limit", "1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "example 0")
	assert.NotContains(t, out, "example 1")
	assert.Contains(t, out, "(10,10,10,1)")
	assert.Contains(t, out, "[1 1 1 1 1 ...]")
	assert.Contains(t, out, "[1 1]")

	out, errOut, code = runCLI(t, "batches", "-data", path, "-batch", "4", "-shuffle", "8", "-limit", "0")
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "batch 0: volume=(4,10,10,10,1) label=(4,2) aux=(4,1)", lines[0])
	assert.Equal(t, "batch 2: volume=(2,10,10,10,1) label=(2,2) aux=(2,1)", lines[2])
}

func TestWriteThenCountCompressedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.tfrecord.gz")

	_, errOut, code := runCLI(t, "write", "-data", path, "-n", "4")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "compression=gzip")

	out, errOut, code := runCLI(t, "count", "-data", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+"\t4\n", out)

	out, errOut, code = runCLI(t, "batches", "-data", path, "-batch", "4")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "batch 0: volume=(4,10,10,10,1) label=(4,2) aux=(4,1)\n", out)
}

func TestWriteShardsKeepExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.tfrecord.s2")

	out, errOut, code := runCLI(t, "write", "-data", path, "-n", "5", "-shards", "2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, filepath.Join(dir, "train.tfrecord-00000-of-00002.s2")+"\t3\n")
	assert.Contains(t, out, filepath.Join(dir, "train.tfrecord-00001-of-00002.s2")+"\t2\n")

	out, errOut, code = runCLI(t, "count", "-data", path, "-shards", "2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "total\t5\n")
}

func TestWriteShardsWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "voxrec.yaml")
	prefix := filepath.Join(dir, "train.tfrecord")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
data_path: `+prefix+`
compression: gzip
num_examples: 7
shards: 3
parse_workers: 4
features:
  - key: label
    dtype: int64
    shape: [2]
    encoding: list
log:
  format: json
`), 0o600))

	out, errOut, code := runCLI(t, "write", "-config", cfgPath)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, errOut, `"msg":"wrote records"`)

	out, errOut, code = runCLI(t, "count", "-config", cfgPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, prefix+"-00000-of-00003\t3\n")
	assert.Contains(t, out, prefix+"-00001-of-00003\t2\n")
	assert.Contains(t, out, prefix+"-00002-of-00003\t2\n")
	assert.Contains(t, out, "total\t7\n")

	out, errOut, code = runCLI(t, "batches", "-config", cfgPath, "-batch", "7")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "batch 0: label=(7,2)\n", out)
}

func TestCountMissingFile(t *testing.T) {
	_, errOut, code := runCLI(t, "count", filepath.Join(t.TempDir(), "missing.tfrecord"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "command failed")
}

func TestBadConfigFlag(t *testing.T) {
	_, errOut, code := runCLI(t, "count", "-compression", "lz4")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid config")

	_, _, code = runCLI(t, "count", "-no-such-flag")
	assert.Equal(t, 2, code)
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, []string{"write", "-data", filepath.Join(t.TempDir(), "x.tfrecord")}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "context canceled")
}
