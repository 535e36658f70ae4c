package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// Artifact is a compiled contract ready for deployment
type Artifact struct {
	Name       string
	SourceName string // e.g. contracts/ProductIdentification.sol
	Path       string // artifact file on disk
	Format     ArtifactFormat
	ABI        abi.ABI
	Bytecode   []byte // creation code
}

// FullyQualifiedName returns source:name, or just the name when the source is unknown
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.Name
	}
	return a.SourceName + ":" + a.Name
}
