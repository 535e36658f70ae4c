package contracts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/product-identification/pid-deploy/internal/domain"
	"github.com/product-identification/pid-deploy/internal/domain/config"
	"github.com/product-identification/pid-deploy/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productABI = `[{"inputs":[],"stateMutability":"nonpayable","type":"constructor"},{"inputs":[{"internalType":"string","name":"id","type":"string"}],"name":"registerProduct","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const hardhatArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "ProductIdentification",
  "sourceName": "contracts/ProductIdentification.sol",
  "abi": ` + productABI + `,
  "bytecode": "0x600060005360016000f3",
  "deployedBytecode": "0x00",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

const foundryArtifact = `{
  "abi": ` + productABI + `,
  "bytecode": {"object": "0x600060005360016000f3", "sourceMap": "", "linkReferences": {}},
  "deployedBytecode": {"object": "0x00"},
  "metadata": {"settings": {"compilationTarget": {"src/ProductIdentification.sol": "ProductIdentification"}}}
}`

func writeArtifact(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestStore(dirs ...string) *ArtifactStore {
	cfg := &config.RuntimeConfig{Deploy: config.DeploySettings{ArtifactDirs: dirs}}
	return NewArtifactStore(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestArtifactStore_GetArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("hardhat artifact", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "artifacts")
		writeArtifact(t, filepath.Join(dir, "contracts", "ProductIdentification.sol", "ProductIdentification.json"), hardhatArtifact)
		writeArtifact(t, filepath.Join(dir, "contracts", "ProductIdentification.sol", "ProductIdentification.dbg.json"), `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/x.json"}`)
		writeArtifact(t, filepath.Join(dir, "build-info", "x.json"), `{"id":"x"}`)

		artifact, err := newTestStore(dir).GetArtifact(ctx, "ProductIdentification")
		require.NoError(t, err)

		assert.Equal(t, "ProductIdentification", artifact.Name)
		assert.Equal(t, "contracts/ProductIdentification.sol", artifact.SourceName)
		assert.Equal(t, models.ArtifactFormatHardhat, artifact.Format)
		assert.Equal(t, []byte{0x60, 0x00, 0x60, 0x00, 0x53, 0x60, 0x01, 0x60, 0x00, 0xf3}, artifact.Bytecode)
		assert.Contains(t, artifact.ABI.Methods, "registerProduct")
		assert.Empty(t, artifact.ABI.Constructor.Inputs)
	})

	t.Run("foundry artifact", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "out")
		writeArtifact(t, filepath.Join(dir, "ProductIdentification.sol", "ProductIdentification.json"), foundryArtifact)

		artifact, err := newTestStore(dir).GetArtifact(ctx, "ProductIdentification")
		require.NoError(t, err)

		assert.Equal(t, "src/ProductIdentification.sol", artifact.SourceName)
		assert.Equal(t, models.ArtifactFormatFoundry, artifact.Format)
		assert.Equal(t, "src/ProductIdentification.sol:ProductIdentification", artifact.FullyQualifiedName())
	})

	t.Run("first directory wins", func(t *testing.T) {
		root := t.TempDir()
		hh := filepath.Join(root, "artifacts")
		forge := filepath.Join(root, "out")
		writeArtifact(t, filepath.Join(hh, "contracts", "ProductIdentification.sol", "ProductIdentification.json"), hardhatArtifact)
		writeArtifact(t, filepath.Join(forge, "ProductIdentification.sol", "ProductIdentification.json"), foundryArtifact)

		artifact, err := newTestStore(filepath.Join(root, "missing"), forge, hh).GetArtifact(ctx, "ProductIdentification")
		require.NoError(t, err)
		assert.Equal(t, models.ArtifactFormatFoundry, artifact.Format)
	})

	t.Run("not compiled", func(t *testing.T) {
		root := t.TempDir()

		_, err := newTestStore(filepath.Join(root, "artifacts")).GetArtifact(ctx, "ProductIdentification")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrArtifactNotFound))
		assert.Contains(t, err.Error(), "compile the contracts first")
	})

	t.Run("ambiguous name", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "artifacts")
		writeArtifact(t, filepath.Join(dir, "contracts", "ProductIdentification.sol", "ProductIdentification.json"), hardhatArtifact)
		writeArtifact(t, filepath.Join(dir, "contracts", "legacy", "ProductIdentification.sol", "ProductIdentification.json"),
			`{"contractName":"ProductIdentification","sourceName":"contracts/legacy/ProductIdentification.sol","abi":[],"bytecode":"0x00"}`)

		store := newTestStore(dir)
		_, err := store.GetArtifact(ctx, "ProductIdentification")
		var ambiguous *AmbiguousArtifactError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, []string{
			"contracts/ProductIdentification.sol:ProductIdentification",
			"contracts/legacy/ProductIdentification.sol:ProductIdentification",
		}, ambiguous.Matches)

		artifact, err := store.GetArtifact(ctx, "contracts/legacy/ProductIdentification.sol:ProductIdentification")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00}, artifact.Bytecode)
	})

	t.Run("interface without bytecode", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "artifacts")
		writeArtifact(t, filepath.Join(dir, "contracts", "IProduct.sol", "IProduct.json"),
			`{"contractName":"IProduct","sourceName":"contracts/IProduct.sol","abi":[],"bytecode":"0x"}`)

		_, err := newTestStore(dir).GetArtifact(ctx, "IProduct")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no bytecode")
	})

	t.Run("unlinked library", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "artifacts")
		writeArtifact(t, filepath.Join(dir, "contracts", "Linked.sol", "Linked.json"),
			`{"contractName":"Linked","sourceName":"contracts/Linked.sol","abi":[],"bytecode":"0x73__$abcdef$__6000"}`)

		_, err := newTestStore(dir).GetArtifact(ctx, "Linked")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unlinked library references")
	})
}

func TestBytecode_UnmarshalJSON(t *testing.T) {
	var fromString, fromObject Bytecode
	require.NoError(t, fromString.UnmarshalJSON([]byte(`"0x6080"`)))
	require.NoError(t, fromObject.UnmarshalJSON([]byte(`{"object":"0x6080"}`)))
	assert.Equal(t, fromString.String(), fromObject.String())

	var bad Bytecode
	assert.Error(t, bad.UnmarshalJSON([]byte(`42`)))
}
